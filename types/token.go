package types

import (
	"fmt"

	"github.com/RiskoZoSlovenska/bliks-lang/token"
)

// OfToken classifies a Name or Literal token. Name tokens map to Name;
// Literal tokens fall through to Of(value). Calling this on a Retrieval or
// BackRetrieval token is a programmer error, since those never reach here
// without first being resolved to their inner payload.
func OfToken(tok token.Token) ValueType {
	switch tok.Type {
	case token.Name:
		return Name
	case token.Literal:
		return Of(tok.Value)
	default:
		panic(fmt.Sprintf("typeoftoken: called on a %s token", tok.Type))
	}
}
