// Package wrap frames an asset payload before it replaces its marker in the
// page template.
package wrap

const (
	ScriptOpen  = `<script type="module">`
	ScriptClose = `</script>`
	StyleOpen   = `<style>`
	StyleClose  = `</style>`
)

// Wrapper turns an asset payload into the markup that replaces the asset's
// marker. name identifies the asset for wrappers that want to reference it.
type Wrapper interface {
	Wrap(name, content string) (string, error)
}

// Literal surrounds the payload with fixed opening and closing text. The
// payload is copied verbatim.
type Literal struct {
	Open  string
	Close string
}

// Ensure Literal implements the Wrapper interface.
var _ Wrapper = Literal{}

// Wrap implements Wrapper.
func (l Literal) Wrap(_ string, content string) (string, error) {
	return l.Open + content + l.Close, nil
}

// Script wraps JavaScript in an inline module script element.
func Script() Literal {
	return Literal{Open: ScriptOpen, Close: ScriptClose}
}

// Style wraps CSS in an inline style element.
func Style() Literal {
	return Literal{Open: StyleOpen, Close: StyleClose}
}
