// Package format serializes declaration documents.
package format

import (
	"encoding"

	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *ts.Document) error
}
