package cashflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// This file contains the code to read and write book files.
//
// A book is a single JSON object with three arrays: accounts, transactions and rules.
// YAML files follow the exact same schema: they are decoded generically then
// handled as JSON, so that there is a single set of parsing rules.

// jaccount is the account object as read from a file.
type jaccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind *Kind  `json:"kind"`
}

// MarshalJSON writes the book with a stable field order.
func (b *Book) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("accounts", nonNil(b.Accounts))
	w.Append("transactions", nonNil(b.Transactions))
	w.Append("rules", nonNil(b.Rules))
	return w.MarshalJSON()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// UnmarshalJSON reads a book and checks its schema: required fields, known
// account kinds, modes, frequencies and currencies. Accounting invariants are
// checked by NewLedgerFromBook.
func (b *Book) UnmarshalJSON(data []byte) error {
	var j struct {
		Accounts     []jaccount        `json:"accounts"`
		Transactions []json.RawMessage `json:"transactions"`
		Rules        []json.RawMessage `json:"rules"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	var book Book
	for i, ja := range j.Accounts {
		if ja.ID == "" {
			return fmt.Errorf("account #%d: missing id", i+1)
		}
		if ja.Kind == nil {
			return fmt.Errorf("account %q: missing kind", ja.ID)
		}
		book.Accounts = append(book.Accounts, Account{ID: ja.ID, Name: ja.Name, Kind: *ja.Kind})
	}
	for i, raw := range j.Transactions {
		var tx Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		book.Transactions = append(book.Transactions, tx)
	}
	for i, raw := range j.Rules {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("rule #%d: %w", i+1, err)
		}
		if _, ok := fields["frequency"]; !ok {
			return fmt.Errorf("rule #%d: missing frequency", i+1)
		}
		var r Rule
		if err := json.Unmarshal(raw, &r); err != nil {
			return fmt.Errorf("rule #%d: %w", i+1, err)
		}
		if err := r.Check(); err != nil {
			return fmt.Errorf("rule #%d: %w", i+1, err)
		}
		book.Rules = append(book.Rules, r)
	}
	*b = book
	return nil
}

// DecodeBook reads a JSON book.
func DecodeBook(r io.Reader) (*Book, error) {
	var b Book
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("cannot decode book: %w", err)
	}
	return &b, nil
}

// DecodeBookYAML reads a YAML book.
func DecodeBookYAML(r io.Reader) (*Book, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot decode yaml book: %w", err)
	}
	if v == nil {
		return &Book{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml book is not representable as json: %w", err)
	}
	return DecodeBook(bytes.NewReader(data))
}

// EncodeBook writes the book as indented JSON.
func EncodeBook(w io.Writer, b *Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// EncodeBookYAML writes the book as YAML, keeping the JSON field order.
func EncodeBookYAML(w io.Writer, b *Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	// JSON is YAML: parse it as a node tree to keep the field order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle turns flow collections into block ones and unquotes mapping keys.
// Values stay quoted so that ids or amounts keep their string type.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		n.Style = 0
		for i := 0; i < len(n.Content); i += 2 {
			n.Content[i].Style = 0
		}
	case yaml.SequenceNode:
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadBook reads a book file, YAML or JSON depending on its extension.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open book file %q: %w", path, err)
	}
	defer f.Close()

	var b *Book
	if isYAML(path) {
		b, err = DecodeBookYAML(f)
	} else {
		b, err = DecodeBook(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// SaveBook writes the book file atomically, in the format given by its extension.
func SaveBook(path string, b *Book) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not save book %q: %w", path, err)
	}
	defer os.Remove(f.Name()) // no-op after a successful rename

	if isYAML(path) {
		err = EncodeBookYAML(f, b)
	} else {
		err = EncodeBook(f, b)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("could not save book %q: %w", path, err)
	}
	return os.Rename(f.Name(), path)
}
