// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"encoding/json"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/relevance/core"
)

// DocumentMUS serializes documents for storage. The attribute map travels
// as a JSON envelope inside the MUS record: attribute values are
// schema-typed on the way in and the document accessors tolerate the JSON
// value set on the way out, so nothing is lost that filtering or scoring
// can observe.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

var _ mus.Serializer[core.Document] = DocumentMUS

func (documentMUS) Marshal(d core.Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(d.Id), bs)
	n += ord.String.Marshal(string(d.Kind), bs[n:])
	n += ord.String.Marshal(attrsJSON(d.Attrs), bs[n:])
	n += varint.Uint64.Marshal(uint64(len(d.Vector)), bs[n:])
	for _, f := range d.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d core.Document, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return d, n, err
	}
	d.Id = core.ID(id)

	kind, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return d, n, err
	}
	d.Kind = core.EntityKind(kind)

	attrs, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return d, n, err
	}
	if attrs != "" {
		if err = json.Unmarshal([]byte(attrs), &d.Attrs); err != nil {
			return d, n, err
		}
	}

	length, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return d, n, err
	}
	if length > 0 {
		d.Vector = make([]float32, length)
		for i := range d.Vector {
			d.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return d, n, err
			}
		}
	}
	return d, n, nil
}

func (documentMUS) Size(d core.Document) (size int) {
	size = varint.Uint64.Size(uint64(d.Id))
	size += ord.String.Size(string(d.Kind))
	size += ord.String.Size(attrsJSON(d.Attrs))
	size += varint.Uint64.Size(uint64(len(d.Vector)))
	for _, f := range d.Vector {
		size += raw.Float32.Size(f)
	}
	return size
}

func (documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return n, err
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	length, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	for i := uint64(0); i < length; i++ {
		n1, err = raw.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// attrsJSON renders an attribute map as its JSON envelope. Map keys
// marshal in sorted order, so the envelope is deterministic and usable for
// content-based IDs.
func attrsJSON(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
