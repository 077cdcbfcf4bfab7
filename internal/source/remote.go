package source

import (
	"context"
	"fmt"

	"github.com/nao1215/inventoryaudit/internal/csvio"
	"github.com/nao1215/inventoryaudit/internal/fetch"
	"github.com/nao1215/inventoryaudit/internal/model"
)

// Getter downloads a URL. *fetch.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) (*fetch.Download, error)
}

// FetchFederalRegistry downloads the federal .gov registry. Headers are
// trimmed, lower-cased and have whitespace runs replaced by underscores.
//
// On failure the returned SourceInfo is marked unavailable and carries
// the HTTP status when there was one.
func FetchFederalRegistry(ctx context.Context, g Getter, url string) ([]model.FederalRecord, model.SourceInfo, error) {
	info, rows, err := download(ctx, g, model.SourceFederalRegistry, url, csvio.SnakeHeader)
	if err != nil {
		return nil, info, err
	}
	records := make([]model.FederalRecord, len(rows))
	for i, f := range rows {
		records[i] = model.NewFederalRecord(f)
	}
	return records, info, nil
}

// FetchSiteScanner downloads the site-scanning dataset. Header names are
// kept as published; the dataset already uses snake_case.
func FetchSiteScanner(ctx context.Context, g Getter, url string) ([]model.ScannerRecord, model.SourceInfo, error) {
	info, rows, err := download(ctx, g, model.SourceSiteScanner, url, csvio.RawHeader)
	if err != nil {
		return nil, info, err
	}
	records := make([]model.ScannerRecord, len(rows))
	for i, f := range rows {
		records[i] = model.NewScannerRecord(f)
	}
	return records, info, nil
}

func download(ctx context.Context, g Getter, name, url string, normalize csvio.HeaderFunc) (model.SourceInfo, []model.Fields, error) {
	info := model.SourceInfo{Name: name, Location: url}

	dl, err := g.Get(ctx, url)
	if err != nil {
		info.StatusCode = fetch.StatusCode(err)
		info.Error = err.Error()
		return info, nil, err
	}
	info.StatusCode = dl.StatusCode
	info.Digest = dl.Digest

	rows, err := csvio.Collect(csvio.ReadBytes(dl.Body, normalize))
	if err != nil {
		info.Error = err.Error()
		return info, nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	info.Rows = len(rows)
	info.Available = true
	return info, rows, nil
}
