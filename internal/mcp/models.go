package mcp

// CodeContextResponse is the code_context tool result payload.
type CodeContextResponse struct {
	OK        bool   `json:"ok"`
	Status    string `json:"status"`
	Strategy  string `json:"strategy,omitempty"`
	StartLine int    `json:"startLine,omitempty"`
	EndLine   int    `json:"endLine,omitempty"`
	Snippet   string `json:"snippet"`
}

// FrameContext is one frame's extraction outcome inside a stack_context
// response.
type FrameContext struct {
	Index   int    `json:"index"`
	Symbol  string `json:"symbol,omitempty"`
	Module  string `json:"module,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Snippet string `json:"snippet,omitempty"`
}

// StackContextResponse is the stack_context tool result payload.
type StackContextResponse struct {
	ReportID string         `json:"reportId"`
	Frames   []FrameContext `json:"frames"`
}
