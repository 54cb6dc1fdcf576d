package types

import "encoding/json"

// jsonValueCodec is a cosmossdk.io/collections/codec.ValueCodec backed by
// encoding/json rather than protobuf: this module's core state (UTXOs,
// signatory sets, in-flight signing transactions) has no generated
// .pb.go type to hang codec.CollValue off of, so collections.NewMap /
// collections.NewItem are given this codec directly instead.
type jsonValueCodec[T any] struct {
	name string
}

// JSONValue constructs a collections value codec for T, named for the
// collections.Schema's introspection output.
func JSONValue[T any](name string) jsonValueCodec[T] {
	return jsonValueCodec[T]{name: name}
}

func (c jsonValueCodec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValueCodec[T]) Decode(b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

func (c jsonValueCodec[T]) EncodeJSON(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValueCodec[T]) DecodeJSON(b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

func (c jsonValueCodec[T]) Stringify(value T) string {
	b, err := json.Marshal(value)
	if err != nil {
		return "<unencodable>"
	}
	return string(b)
}

func (c jsonValueCodec[T]) ValueType() string {
	return c.name
}
