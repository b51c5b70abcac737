package provider

import (
	"iter"
	"strings"
)

// Collect drains parts into a GenerateResult. Text deltas are concatenated,
// tool calls kept in order and the finish part supplies reason and usage.
// Without a finish part the reason defaults to FinishStop. The first error
// stops collection and is returned.
func Collect(parts iter.Seq2[StreamPart, error]) (*GenerateResult, error) {
	var (
		text   strings.Builder
		res    = &GenerateResult{FinishReason: FinishStop}
		outErr error
	)
	for p, err := range parts {
		if err != nil {
			outErr = err
			break
		}
		switch v := p.(type) {
		case TextDelta:
			text.WriteString(v.Text)
		case ToolCall:
			res.ToolCalls = append(res.ToolCalls, v)
		case Finish:
			res.FinishReason = v.Reason
			res.Usage = v.Usage
		}
	}
	if outErr != nil {
		return nil, outErr
	}
	res.Text = text.String()
	return res, nil
}
