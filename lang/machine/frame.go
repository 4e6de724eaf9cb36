package machine

import "github.com/mna/lilypad/lang/token"

// Frame records a call to a Function.
type Frame struct {
	fn      *Function
	callPos token.Pos // position of the call site, if known
}

// Function returns the function called in this frame.
func (fr *Frame) Function() *Function { return fr.fn }

// Position returns the source position of the call that created this frame.
func (fr *Frame) Position() token.Pos { return fr.callPos }

func (fr *Frame) String() string {
	if fr.fn == nil {
		return "<empty frame>"
	}
	return fr.fn.Signature() + " called at " + fr.callPos.String()
}
