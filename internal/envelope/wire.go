package envelope

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Message is a protobuf message of the wallet schema. The method set is
// unexported so the schema stays closed.
type Message interface {
	appendFields(b []byte) []byte
	consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error)
}

// unknownField is returned by consumeField for fields it does not own.
// Every protobuf value occupies at least one byte, so zero is free.
const unknownField = 0

func marshalMessage(m Message) []byte {
	return m.appendFields(nil)
}

func unmarshalMessage(b []byte, m Message) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := m.consumeField(num, typ, b)
		if err != nil {
			return err
		}
		if n == unknownField {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

// Proto3 encoding: zero scalars are omitted, fields in ascending order.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendStrings(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

func appendUint64(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// appendMessage always emits the field so an empty message keeps presence.
func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, marshalMessage(m))
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return unknownField, nil
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return n, nil
	}
	*dst = v
	return n, nil
}

func consumeRepeatedString(typ protowire.Type, b []byte, dst *[]string) (int, error) {
	var v string
	n, err := consumeString(typ, b, &v)
	if n > 0 && err == nil {
		*dst = append(*dst, v)
	}
	return n, err
}

func consumeUint64(typ protowire.Type, b []byte, dst *uint64) (int, error) {
	if typ != protowire.VarintType {
		return unknownField, nil
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, nil
	}
	*dst = v
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, m Message) (int, error) {
	if typ != protowire.BytesType {
		return unknownField, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	if err := unmarshalMessage(v, m); err != nil {
		return n, err
	}
	return n, nil
}
