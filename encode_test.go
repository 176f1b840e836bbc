package cashflow

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/cashflow/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonBook = `{
  "accounts": [
    {"id": "cash", "name": "Cash", "kind": "asset"},
    {"id": "salary", "name": "Salary", "kind": "revenue"},
    {"id": "rent", "kind": "expense"}
  ],
  "transactions": [
    {
      "id": "t1",
      "date": "2024-01-25",
      "description": "January salary",
      "postings": [
        {"account": "cash", "currency": "USD", "amount": "3000"},
        {"account": "salary", "currency": "USD", "amount": -3000}
      ]
    },
    {
      "id": "t2",
      "date": "2024-01-26",
      "mode": "single",
      "postings": [{"account": "rent", "currency": "USD", "amount": "12.5", "memo": "parking"}]
    }
  ],
  "rules": [
    {
      "id": "rent",
      "name": "Rent",
      "frequency": "monthly",
      "start": "2024-01-31",
      "end": {"count": 12},
      "template": {
        "postings": [
          {"account": "rent", "currency": "USD", "amount": "700"},
          {"account": "cash", "currency": "USD", "amount": "-700"}
        ]
      },
      "escalation": {"frequency": "yearly", "start": "2024-01-01", "percentage": "0.03"}
    }
  ]
}`

const yamlBook = `
accounts:
  - {id: cash, name: Cash, kind: asset}
  - id: salary
    name: Salary
    kind: income
  - id: rent
    kind: expense
transactions:
  - id: t1
    date: 2024-01-25
    description: January salary
    postings:
      - {account: cash, currency: USD, amount: 3000}
      - {account: salary, currency: USD, amount: -3000}
  - id: t2
    date: 2024-01-26
    mode: single
    postings:
      - account: rent
        currency: USD
        amount: 12.5
        memo: parking
rules:
  - id: rent
    name: Rent
    frequency: monthly
    start: 2024-01-31
    end:
      count: 12
    template:
      postings:
        - {account: rent, currency: USD, amount: 700}
        - {account: cash, currency: USD, amount: -700}
    escalation:
      frequency: yearly
      start: 2024-01-01
      percentage: 0.03
`

func checkBook(t *testing.T, b *Book) {
	t.Helper()
	require.Len(t, b.Accounts, 3)
	assert.Equal(t, Account{ID: "salary", Name: "Salary", Kind: Income}, b.Accounts[1])

	require.Len(t, b.Transactions, 2)
	t1 := b.Transactions[0]
	assert.Equal(t, "t1", t1.ID())
	assert.Equal(t, D("2024-01-25"), t1.Date())
	assert.Equal(t, Double, t1.Mode())
	assert.True(t, t1.Postings()[1].Amount.Equal(USD(-3000)))
	t2 := b.Transactions[1]
	assert.Equal(t, Single, t2.Mode())
	assert.Equal(t, "parking", t2.Postings()[0].Memo)

	require.Len(t, b.Rules, 1)
	r := b.Rules[0]
	assert.Equal(t, Monthly.Unit, r.Unit)
	assert.Equal(t, 12, r.End.Count)
	require.NotNil(t, r.Escalation)
	assert.Equal(t, Year, r.Escalation.Unit)
	assert.Equal(t, "0.03", r.Escalation.Percentage.String())

	l, err := NewLedgerFromBook(b)
	require.NoError(t, err)
	cash, err := l.Balance("cash")
	require.NoError(t, err)
	assert.True(t, cash.Equal(Balance{"USD": USD(3000)}))
}

func TestDecodeBook(t *testing.T) {
	b, err := DecodeBook(strings.NewReader(jsonBook))
	require.NoError(t, err)
	checkBook(t, b)
}

func TestDecodeBookYAML(t *testing.T) {
	b, err := DecodeBookYAML(strings.NewReader(yamlBook))
	require.NoError(t, err)
	checkBook(t, b)

	empty, err := DecodeBookYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Accounts)
}

func TestEncodeBook(t *testing.T) {
	b, err := DecodeBook(strings.NewReader(jsonBook))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeBook(&buf, b))
	assert.Contains(t, buf.String(), `"kind": "income"`)
	assert.Contains(t, buf.String(), `"mode": "single"`)
	assert.NotContains(t, buf.String(), `"mode": "double"`)

	again, err := DecodeBook(&buf)
	require.NoError(t, err)
	checkBook(t, again)

	buf.Reset()
	require.NoError(t, EncodeBookYAML(&buf, b))
	assert.Contains(t, buf.String(), "accounts:\n")
	again, err = DecodeBookYAML(&buf)
	require.NoError(t, err)
	checkBook(t, again)
}

func TestEncodeProjected(t *testing.T) {
	l := newTestLedger(t)
	txs, err := NewGenerator(l).GenerateAll([]Rule{rentRule()}, date.Range{From: D("2024-01-01"), To: D("2024-01-31")})
	require.NoError(t, err)
	require.Len(t, txs, 1)

	var buf bytes.Buffer
	require.NoError(t, EncodeBook(&buf, &Book{Transactions: txs}))
	assert.Contains(t, buf.String(), `"status": "projected"`)
	assert.Contains(t, buf.String(), `"rule": "rent"`)

	buf.Reset()
	require.NoError(t, EncodeBook(&buf, &Book{Transactions: []Transaction{txs[0].Record()}}))
	assert.NotContains(t, buf.String(), `"status"`)
	b, err := DecodeBook(&buf)
	require.NoError(t, err)
	assert.Equal(t, Recorded, b.Transactions[0].Status())
	assert.Equal(t, "rent", b.Transactions[0].Rule())
}

func TestDecodeBookErrors(t *testing.T) {
	testCases := []struct {
		name string
		book string
		want string
	}{
		{"account without id", `{"accounts":[{"kind":"asset"}]}`, "missing id"},
		{"account without kind", `{"accounts":[{"id":"cash"}]}`, "missing kind"},
		{"unknown kind", `{"accounts":[{"id":"cash","kind":"debit"}]}`, "debit"},
		{"transaction without id", `{"transactions":[{"date":"2024-01-01","postings":[]}]}`, "missing the id"},
		{"transaction without date", `{"transactions":[{"id":"t","postings":[]}]}`, "missing the date"},
		{"unknown mode", `{"transactions":[{"id":"t","date":"2024-01-01","mode":"triple"}]}`, "triple"},
		{"unknown currency", `{"transactions":[{"id":"t","date":"2024-01-01","postings":[{"account":"cash","currency":"ZZZ","amount":"1"}]}]}`, "ZZZ"},
		{"posting without account", `{"transactions":[{"id":"t","date":"2024-01-01","postings":[{"currency":"USD","amount":"1"}]}]}`, "missing the account"},
		{"rule without frequency", `{"rules":[{"id":"r","start":"2024-01-01","template":{"postings":[]}}]}`, "missing frequency"},
		{"unknown frequency", `{"rules":[{"id":"r","frequency":"hourly","start":"2024-01-01"}]}`, "hourly"},
		{"rule without start", `{"rules":[{"id":"r","frequency":"daily"}]}`, "no start date"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeBook(strings.NewReader(tc.book))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewLedgerFromBookErrors(t *testing.T) {
	b, err := DecodeBook(strings.NewReader(`{
		"accounts": [{"id": "cash", "kind": "asset"}],
		"transactions": [{"id": "t", "date": "2024-03-01", "postings": [
			{"account": "cash", "currency": "EUR", "amount": "1"},
			{"account": "bank", "currency": "EUR", "amount": "-1"}
		]}]
	}`))
	require.NoError(t, err)
	_, err = NewLedgerFromBook(b)
	assert.ErrorIs(t, err, ErrUnknownAccount)
	assert.Contains(t, err.Error(), "2024-03-01")

	b.Accounts = append(b.Accounts, Account{ID: "cash", Kind: Asset})
	_, err = NewLedgerFromBook(b)
	assert.ErrorIs(t, err, ErrDuplicateAccountID)
}

func TestSaveLoadBook(t *testing.T) {
	b, err := DecodeBook(strings.NewReader(jsonBook))
	require.NoError(t, err)

	for _, name := range []string{"book.json", "book.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveBook(path, b))
			got, err := LoadBook(path)
			require.NoError(t, err)
			checkBook(t, got)
		})
	}

	_, err = LoadBook(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
