package payload

import (
	"encoding/json"
	"fmt"
	"strconv"

	"dialogflow-relay/internal/domain/dto"

	"github.com/buger/jsonparser"
)

// FieldMapping names the keys a gateway integration uses for the envelope
// and its fields, and the type marker of a text chat message.
type FieldMapping struct {
	Root       string
	ID         string
	Type       string
	Body       string
	From       string
	FromMe     string
	ChatMarker string
}

var (
	EnglishMapping = FieldMapping{
		Root:       "data",
		ID:         "id",
		Type:       "type",
		Body:       "body",
		From:       "from",
		FromMe:     "fromMe",
		ChatMarker: "chat",
	}

	// PortugueseMapping matches instances whose webhook keys are localized.
	// fromMe is not translated by the gateway.
	PortugueseMapping = FieldMapping{
		Root:       "dados",
		ID:         "id",
		Type:       "tipo",
		Body:       "corpo",
		From:       "de",
		FromMe:     "fromMe",
		ChatMarker: "bate-papo",
	}
)

func MappingFor(fieldSet string) (FieldMapping, error) {
	switch fieldSet {
	case "en":
		return EnglishMapping, nil
	case "pt":
		return PortugueseMapping, nil
	default:
		return FieldMapping{}, fmt.Errorf("unknown field set %q", fieldSet)
	}
}

type Shape int

const (
	// ShapeSingle expects one envelope object under the root key.
	ShapeSingle Shape = iota
	// ShapeList expects an array of envelope objects under the root key.
	ShapeList
)

func ParseShape(s string) (Shape, error) {
	switch s {
	case "single":
		return ShapeSingle, nil
	case "list":
		return ShapeList, nil
	default:
		return ShapeSingle, fmt.Errorf("unknown webhook shape %q", s)
	}
}

func (s Shape) String() string {
	if s == ShapeList {
		return "list"
	}
	return "single"
}

type Extractor struct {
	mapping FieldMapping
	shape   Shape
}

func NewExtractor(mapping FieldMapping, shape Shape) *Extractor {
	return &Extractor{mapping: mapping, shape: shape}
}

func (e *Extractor) Mapping() FieldMapping {
	return e.mapping
}

// Extract normalizes a raw webhook body into a sequence of envelopes. It
// never fails: malformed JSON, a missing root key or a root value of the
// wrong shape all yield an empty sequence.
func (e *Extractor) Extract(raw []byte) []dto.Envelope {
	if !json.Valid(raw) {
		return nil
	}

	value, dataType, _, err := jsonparser.Get(raw, e.mapping.Root)
	if err != nil {
		return nil
	}

	switch e.shape {
	case ShapeList:
		if dataType != jsonparser.Array {
			return nil
		}

		var envelopes []dto.Envelope
		_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, err error) {
			if err != nil || itemType != jsonparser.Object {
				return
			}
			envelopes = append(envelopes, e.decode(item))
		})
		if err != nil {
			return nil
		}
		return envelopes
	default:
		if dataType != jsonparser.Object {
			return nil
		}
		return []dto.Envelope{e.decode(value)}
	}
}

// decode reads the mapped fields. Absent or mistyped string fields stay
// empty.
func (e *Extractor) decode(object []byte) dto.Envelope {
	var envelope dto.Envelope

	envelope.ID, _ = jsonparser.GetString(object, e.mapping.ID)
	envelope.Type, _ = jsonparser.GetString(object, e.mapping.Type)
	envelope.Body, _ = jsonparser.GetString(object, e.mapping.Body)
	envelope.From, _ = jsonparser.GetString(object, e.mapping.From)
	envelope.FromMe = e.fromMe(object)

	return envelope
}

// fromMe treats any truthy value as self-sent: true, a non-empty string, a
// non-zero number, an object or an array. Only false, "", 0, null and an
// absent key mean the message came from someone else.
func (e *Extractor) fromMe(object []byte) bool {
	value, dataType, _, err := jsonparser.Get(object, e.mapping.FromMe)
	if err != nil {
		return false
	}

	switch dataType {
	case jsonparser.Boolean:
		flag, err := jsonparser.ParseBoolean(value)
		return err == nil && flag
	case jsonparser.String:
		return len(value) > 0
	case jsonparser.Number:
		number, err := strconv.ParseFloat(string(value), 64)
		return err == nil && number != 0
	case jsonparser.Object, jsonparser.Array:
		return true
	default:
		return false
	}
}
