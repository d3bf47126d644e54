package sigutil

import (
	"encoding/json"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Batch request kinds understood by JSONParser.ParseBatch.
const (
	KindPersonal = "personal"
	KindTyped    = "typed"
)

// JSONParser reads messages, typed-data documents and batch requests from JSON.
//
// Message format:
//
//	{"data": "0x48656c6c6f", "sig": "0x..."}
//
// Typed-data format (either a bare field list or wrapped with a signature):
//
//	[{"type": "string", "name": "message", "value": "Hi, Alice!"}]
//	{"data": [{"type": "uint32", "name": "value", "value": 42}], "sig": "0x..."}
//
// Batch format:
//
//	[{"kind": "personal", "data": "Hello", "sig": "0x..."}, {"kind": "typed", "data": [...], "sig": "0x..."}]
//
// A batch entry without a kind is a personal message.
type JSONParser struct {
	DataField string // Field name for the payload (default: "data")
	SigField  string // Field name for the signature (default: "sig")
	KindField string // Field name for the batch request kind (default: "kind")
}

func (p *JSONParser) fields() (data, sig, kind string) {
	data, sig, kind = p.DataField, p.SigField, p.KindField
	if data == "" {
		data = "data"
	}
	if sig == "" {
		sig = "sig"
	}
	if kind == "" {
		kind = "kind"
	}
	return data, sig, kind
}

// ParseMessage parses a message object.
func (p *JSONParser) ParseMessage(r io.Reader) (MsgParams, error) {
	raw, err := decodeJSON(r)
	if err != nil {
		return MsgParams{}, err
	}
	item, ok := raw.(map[string]interface{})
	if !ok {
		return MsgParams{}, errors.Errorf("expected a JSON object, got %T", raw)
	}
	return p.messageFrom(item)
}

// ParseTypedData parses a typed-data document.
func (p *JSONParser) ParseTypedData(r io.Reader) (TypedMsgParams, error) {
	raw, err := decodeJSON(r)
	if err != nil {
		return TypedMsgParams{}, err
	}
	if list, ok := raw.([]interface{}); ok {
		td, err := typedDataFrom(list)
		return TypedMsgParams{Data: td}, err
	}
	item, ok := raw.(map[string]interface{})
	if !ok {
		return TypedMsgParams{}, errors.Errorf("expected a JSON array or object, got %T", raw)
	}
	return p.typedFrom(item)
}

// ParseBatch parses a list of recovery requests.
func (p *JSONParser) ParseBatch(r io.Reader) ([]RecoverRequest, error) {
	raw, err := decodeJSON(r)
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Errorf("expected a JSON array, got %T", raw)
	}

	_, _, kindField := p.fields()
	requests := make([]RecoverRequest, 0, len(items))
	for i, it := range items {
		item, ok := it.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("request %d: expected a JSON object, got %T", i, it)
		}
		kind, _ := item[kindField].(string)
		switch kind {
		case KindPersonal, "":
			msg, err := p.messageFrom(item)
			if err != nil {
				return nil, errors.Wrapf(err, "request %d", i)
			}
			requests = append(requests, RecoverRequest{Message: &msg})
		case KindTyped:
			typed, err := p.typedFrom(item)
			if err != nil {
				return nil, errors.Wrapf(err, "request %d", i)
			}
			requests = append(requests, RecoverRequest{Typed: &typed})
		default:
			return nil, errors.Errorf("request %d: unknown kind %q", i, kind)
		}
	}
	return requests, nil
}

// ParseMessageFile parses a message from a JSON file.
func (p *JSONParser) ParseMessageFile(path string) (MsgParams, error) {
	file, err := os.Open(path)
	if err != nil {
		return MsgParams{}, errors.Wrap(err, "failed to read file")
	}
	defer file.Close()
	return p.ParseMessage(file)
}

// ParseTypedDataFile parses a typed-data document from a JSON file.
func (p *JSONParser) ParseTypedDataFile(path string) (TypedMsgParams, error) {
	file, err := os.Open(path)
	if err != nil {
		return TypedMsgParams{}, errors.Wrap(err, "failed to read file")
	}
	defer file.Close()
	return p.ParseTypedData(file)
}

// ParseBatchFile parses recovery requests from a JSON file.
func (p *JSONParser) ParseBatchFile(path string) ([]RecoverRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	defer file.Close()
	return p.ParseBatch(file)
}

func (p *JSONParser) messageFrom(item map[string]interface{}) (MsgParams, error) {
	dataField, sigField, _ := p.fields()
	sig, err := optionalString(item, sigField)
	if err != nil {
		return MsgParams{}, err
	}
	return MsgParams{Data: InputOf(item[dataField]), Sig: sig}, nil
}

func (p *JSONParser) typedFrom(item map[string]interface{}) (TypedMsgParams, error) {
	dataField, sigField, _ := p.fields()
	sig, err := optionalString(item, sigField)
	if err != nil {
		return TypedMsgParams{}, err
	}
	list, ok := item[dataField].([]interface{})
	if !ok {
		return TypedMsgParams{}, errors.Wrapf(ErrInvalidTypedData, "%s must be a list of fields", dataField)
	}
	td, err := typedDataFrom(list)
	if err != nil {
		return TypedMsgParams{}, err
	}
	return TypedMsgParams{Data: td, Sig: sig}, nil
}

func typedDataFrom(list []interface{}) (TypedData, error) {
	td := make(TypedData, 0, len(list))
	for i, it := range list {
		obj, ok := it.(map[string]interface{})
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTypedData, "field %d: expected a JSON object, got %T", i, it)
		}
		typ, _ := obj["type"].(string)
		name, _ := obj["name"].(string)
		field := TypedDataField{Type: typ, Name: name, Value: obj["value"]}
		if err := validate.Struct(field); err != nil {
			return nil, errors.Wrapf(ErrInvalidTypedData, "field %d: %v", i, err)
		}
		td = append(td, field)
	}
	return td, nil
}

func optionalString(item map[string]interface{}, field string) (string, error) {
	v, ok := item[field]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s must be a string, got %T", field, v)
	}
	return s, nil
}

func decodeJSON(r io.Reader) (interface{}, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON")
	}
	return raw, nil
}
