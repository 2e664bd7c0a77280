package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult holds the result of comparing two texts.
type DiffResult struct {
	Old        string  `json:"old" yaml:"old"`
	New        string  `json:"new" yaml:"new"`
	Changed    bool    `json:"changed" yaml:"changed"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Patch      string  `json:"patch,omitempty" yaml:"patch,omitempty"`

	diffs []diffmatchpatch.Diff
}

// ComputeDiff compares oldText with newText word by word.
func ComputeDiff(oldText, newText string) *DiffResult {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	dist := dmp.DiffLevenshtein(diffs)
	maxLen := len(oldText)
	if len(newText) > maxLen {
		maxLen = len(newText)
	}
	similarity := 1.0
	if maxLen > 0 {
		similarity = 1.0 - float64(dist)/float64(maxLen)
	}

	res := &DiffResult{
		Old:        oldText,
		New:        newText,
		Changed:    oldText != newText,
		Similarity: similarity,
		diffs:      diffs,
	}
	if res.Changed {
		res.Patch = dmp.PatchToText(dmp.PatchMake(oldText, diffs))
	}
	return res
}

// Inline renders the diff as one string with [-removed-] and {+added+}
// markers, or in color when useColor is set.
func (d *DiffResult) Inline(useColor bool) string {
	if useColor {
		return diffmatchpatch.New().DiffPrettyText(d.diffs)
	}
	var sb strings.Builder
	for _, df := range d.diffs {
		switch df.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + df.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + df.Text + "+}")
		default:
			sb.WriteString(df.Text)
		}
	}
	return sb.String()
}
