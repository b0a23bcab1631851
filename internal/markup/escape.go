package markup

import "strings"

// attrReplacer escapes text for use inside a double-quoted attribute
// value. The ampersand substitution must win over the entity-producing
// ones so already-present ampersands are not double-escaped within a
// single pass; a Replacer's single left-to-right pass guarantees that.
var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeAttribute escapes s for embedding inside a quoted attribute
// value. Escaping is not idempotent: escaping already-escaped text
// double-escapes the ampersands. Callers escape exactly once per
// serialization pass.
func EscapeAttribute(s string) string {
	return attrReplacer.Replace(s)
}

// EscapeContent escapes s for use as element text content. Only the
// ampersand is escaped; angle brackets pass through verbatim so block
// content can carry illustrative markup and code samples readable in
// the output. Keep this asymmetry: it is a deliberate trade of strict
// well-formedness for human-readable prompt text.
func EscapeContent(s string) string {
	return strings.ReplaceAll(s, "&", "&amp;")
}
