package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
)

// rawBook mirrors one record of the legacy book-list JSON. Field names
// and the amount/BookPrice duplication come from the upstream data and
// are normalized away here.
type rawBook struct {
	ID         string          `json:"id"`
	BookTitle  string          `json:"BookTitle"`
	TitleTamil string          `json:"BookTitleTamil"`
	Author     string          `json:"Author"`
	Amount     json.RawMessage `json:"amount"`
	BookPrice  json.RawMessage `json:"BookPrice"`
	PriceUSD   json.RawMessage `json:"PriceUSD"`
	Stock      json.RawMessage `json:"Stock"`
	BookImg    string          `json:"Bookimg"`
}

// LoadFile reads the book-list JSON file and returns the normalized books.
func LoadFile(path string) ([]Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read book list: %w", err)
	}
	return Load(data)
}

// Load normalizes raw book-list records into Books. Records with a
// missing id or non-positive INR price are skipped; duplicate ids keep
// the first record.
func Load(data []byte) ([]Book, error) {
	var raw []rawBook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse book list: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	books := make([]Book, 0, len(raw))
	for i, r := range raw {
		if r.ID == "" {
			log.Printf("skipping book record %d: missing id", i)
			continue
		}
		if seen[r.ID] {
			log.Printf("skipping book record %d: duplicate id %s", i, r.ID)
			continue
		}

		// "amount" is the authoritative INR price; "BookPrice" is a
		// legacy fallback present on older records.
		priceINR := numeric(r.Amount)
		if priceINR <= 0 {
			priceINR = numeric(r.BookPrice)
		}
		if priceINR <= 0 {
			log.Printf("skipping book record %d (%s): no usable price", i, r.ID)
			continue
		}

		seen[r.ID] = true
		books = append(books, Book{
			ID:         r.ID,
			Title:      r.BookTitle,
			TitleTamil: r.TitleTamil,
			Author:     r.Author,
			PriceINR:   priceINR,
			PriceUSD:   numeric(r.PriceUSD),
			Stock:      int(numeric(r.Stock)),
			ImageURL:   r.BookImg,
		})
	}

	return books, nil
}

// numeric parses a JSON value that upstream stores either as a number
// or as a quoted string ("120", "120.00").
func numeric(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
