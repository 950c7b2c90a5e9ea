package manual

import (
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Page one page of a consultation manual document.
type Page struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	PageNumber int    `json:"pageNumber"`
	Content    string `json:"content"`
}

// Result a ranked page hit. Similarity is the raw relevance score; it is
// comparable within one search only.
type Result struct {
	Page       Page    `json:"page"`
	Similarity float64 `json:"similarity"`
}

// Index is a full-text index over manual pages. An empty path keeps the
// index in memory, which is how the demo console runs.
type Index struct {
	idx bleve.Index

	mu    sync.RWMutex
	pages map[string]Page
}

func buildMapping() mapping.IndexMapping {
	// Bigram analysis so compound Hangul terms still match single keywords.
	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = cjk.AnalyzerName

	pageDoc := bleve.NewDocumentMapping()
	pageDoc.AddFieldMappingsAt("content", contentField)
	pageDoc.AddFieldMappingsAt("filename", bleve.NewTextFieldMapping())

	m := bleve.NewIndexMapping()
	m.DefaultMapping = pageDoc
	return m
}

func NewIndex(path string) (*Index, error) {
	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(buildMapping())
	} else if _, statErr := os.Stat(path); statErr == nil {
		idx, err = bleve.Open(path)
	} else {
		idx, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open manual index err: %w", err)
	}
	return &Index{idx: idx, pages: make(map[string]Page)}, nil
}

// Add indexes pages in one batch. Re-adding an id overwrites it.
func (i *Index) Add(pages []Page) error {
	batch := i.idx.NewBatch()
	for _, p := range pages {
		if err := batch.Index(p.ID, p); err != nil {
			return fmt.Errorf("index page %s err: %w", p.ID, err)
		}
	}
	if err := i.idx.Batch(batch); err != nil {
		return fmt.Errorf("commit index batch err: %w", err)
	}

	i.mu.Lock()
	for _, p := range pages {
		i.pages[p.ID] = p
	}
	i.mu.Unlock()
	return nil
}

// Search ranks pages against the raw query plus the extracted keywords.
// Zero hits is a valid outcome, not an error.
func (i *Index) Search(rawQuery string, keywords []string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 5
	}

	terms := make([]query.Query, 0, len(keywords)+1)
	if rawQuery != "" {
		q := bleve.NewMatchQuery(rawQuery)
		q.SetField("content")
		terms = append(terms, q)
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		q := bleve.NewMatchQuery(kw)
		q.SetField("content")
		terms = append(terms, q)
	}
	if len(terms) == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(terms...), limit, 0, false)
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search manual index err: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		page, ok := i.pages[hit.ID]
		if !ok {
			continue
		}
		results = append(results, Result{Page: page, Similarity: hit.Score})
	}
	return results, nil
}

func (i *Index) Close() error {
	return i.idx.Close()
}
