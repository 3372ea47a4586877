package market

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// Profile scrapes company name, sector and industry from the Yahoo Finance
// profile page. The page layout labels sector and industry with dt/span pairs
// inside the asset profile section.
func (y *Yahoo) Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	symbol := NormalizeSymbol(ticker)
	url := fmt.Sprintf("%s/%s/profile", y.profileURL, symbol)

	resp, err := y.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoData, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile %s: unexpected status %d", symbol, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("profile %s: parse: %w", symbol, err)
	}

	profile := &contracts.CompanyProfile{
		Name:     strings.TrimSpace(doc.Find("h1").First().Text()),
		Sector:   labeledValue(doc, "Sector"),
		Industry: labeledValue(doc, "Industry"),
	}

	if profile.Name == "" && profile.Sector == "" {
		return nil, fmt.Errorf("%w: %s: empty profile page", contracts.ErrNoData, symbol)
	}
	return profile, nil
}

// labeledValue finds the value element following a label whose text starts
// with the given prefix ("Sector(s)", "Industry").
func labeledValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("dt, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, label) {
			return true
		}
		// Value lives in the next sibling element.
		if next := s.Next(); next.Length() > 0 {
			if v := strings.TrimSpace(next.Text()); v != "" && v != ":" {
				value = strings.TrimPrefix(v, ": ")
				return false
			}
		}
		return true
	})
	return value
}
