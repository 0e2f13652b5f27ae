package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/valenjeb/wp-cpt/internal/domain"
	"github.com/valenjeb/wp-cpt/internal/export"
	"github.com/valenjeb/wp-cpt/internal/platform/memory"
	"github.com/valenjeb/wp-cpt/pkg/cpt"
)

// ListParams are the request parameters of a list-table view.
type ListParams struct {
	OrderBy string
	Desc    bool
	Search  string
	Limit   int
	Offset  int
}

// Row is one rendered list-table row.
type Row struct {
	ID    int64             `json:"id"`
	Cells map[string]string `json:"cells"`
}

// ListResult is a rendered list-table page.
type ListResult struct {
	Columns  []cpt.Column            `json:"columns"`
	Sortable map[string]cpt.SortSpec `json:"sortable,omitempty"`
	Rows     []Row                   `json:"rows"`
}

// ScreenInfo describes one registered post type.
type ScreenInfo struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Taxonomies []string `json:"taxonomies,omitempty"`
}

// TaxonomyInfo describes one registered taxonomy.
type TaxonomyInfo struct {
	Name  string   `json:"name"`
	Label string   `json:"label"`
	Types []string `json:"types,omitempty"`
}

// AdminService renders admin list-tables for registered post types and
// taxonomies by running the host's column, cell and query hooks over
// stored entries and terms.
type AdminService interface {
	Screens(ctx context.Context) []ScreenInfo
	Columns(ctx context.Context, screen string) ([]cpt.Column, error)
	ListEntries(ctx context.Context, screen string, params ListParams) (*ListResult, error)
	ExportEntries(ctx context.Context, screen string, params ListParams) (export.Table, error)

	TaxonomyScreens(ctx context.Context) []TaxonomyInfo
	ListTerms(ctx context.Context, taxonomy string) (*ListResult, error)
}

type adminService struct {
	host  *memory.Host
	repo  domain.EntryRepository
	terms domain.TermRepository
}

func NewAdminService(host *memory.Host, repo domain.EntryRepository, terms domain.TermRepository) AdminService {
	return &adminService{host: host, repo: repo, terms: terms}
}

func (s *adminService) Screens(ctx context.Context) []ScreenInfo {
	names := s.host.PostTypes()
	out := make([]ScreenInfo, 0, len(names))
	for _, name := range names {
		info := ScreenInfo{Name: name, Label: name}
		if opts, ok := s.host.PostTypeOptions(name); ok {
			if label, ok := opts["label"].(string); ok {
				info.Label = label
			}
			if taxonomies, ok := opts["taxonomies"].([]string); ok {
				info.Taxonomies = taxonomies
			}
		}
		out = append(out, info)
	}
	return out
}

func (s *adminService) Columns(ctx context.Context, screen string) ([]cpt.Column, error) {
	if !s.host.PostTypeExists(screen) {
		return nil, fmt.Errorf("%w: post type %q", cpt.ErrNotFound, screen)
	}
	return s.host.AdminColumns(screen, s.host.DefaultColumns(screen)), nil
}

func (s *adminService) ListEntries(ctx context.Context, screen string, params ListParams) (*ListResult, error) {
	columns, err := s.Columns(ctx, screen)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx, s.buildFilter(screen, params))
	if err != nil {
		return nil, fmt.Errorf("list %q entries: %w", screen, err)
	}

	result := &ListResult{
		Columns:  columns,
		Sortable: s.host.SortableColumns(screen),
		Rows:     make([]Row, 0, len(entries)),
	}
	for _, entry := range entries {
		result.Rows = append(result.Rows, Row{ID: entry.ID, Cells: s.renderCells(screen, columns, entry)})
	}
	return result, nil
}

func (s *adminService) ExportEntries(ctx context.Context, screen string, params ListParams) (export.Table, error) {
	listing, err := s.ListEntries(ctx, screen, params)
	if err != nil {
		return export.Table{}, err
	}

	table := export.Table{
		Sheet:   screen,
		Title:   fmt.Sprintf("%s listing (%d rows)", screen, len(listing.Rows)),
		Headers: make([]string, len(listing.Columns)),
		Rows:    make([][]string, len(listing.Rows)),
	}
	for i, col := range listing.Columns {
		table.Headers[i] = col.Label
	}
	for i, row := range listing.Rows {
		cells := make([]string, len(listing.Columns))
		for j, col := range listing.Columns {
			cells[j] = row.Cells[col.ID]
		}
		table.Rows[i] = cells
	}
	return table, nil
}

func (s *adminService) TaxonomyScreens(ctx context.Context) []TaxonomyInfo {
	names := s.host.Taxonomies()
	out := make([]TaxonomyInfo, 0, len(names))
	for _, name := range names {
		info := TaxonomyInfo{Name: name, Label: name, Types: s.host.ObjectTypes(name)}
		if opts, ok := s.host.TaxonomyOptions(name); ok {
			if label, ok := opts["label"].(string); ok {
				info.Label = label
			}
		}
		out = append(out, info)
	}
	return out
}

func (s *adminService) ListTerms(ctx context.Context, taxonomy string) (*ListResult, error) {
	if !s.host.TaxonomyExists(taxonomy) {
		return nil, fmt.Errorf("%w: taxonomy %q", cpt.ErrNotFound, taxonomy)
	}

	columns := s.host.AdminColumns(taxonomy, s.host.DefaultTermColumns(taxonomy))

	terms, err := s.terms.ListTerms(ctx, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("list %q terms: %w", taxonomy, err)
	}

	result := &ListResult{
		Columns:  columns,
		Sortable: s.host.SortableColumns(taxonomy),
		Rows:     make([]Row, 0, len(terms)),
	}
	for _, term := range terms {
		result.Rows = append(result.Rows, Row{ID: term.ID, Cells: s.renderTermCells(taxonomy, columns, term)})
	}
	return result, nil
}

// buildFilter translates request parameters to a repository filter by
// routing the orderby key through the screen's admin query hooks, the
// same path the host itself would take.
func (s *adminService) buildFilter(screen string, params ListParams) domain.EntryFilter {
	q := cpt.NewQuery()
	if params.OrderBy != "" {
		q.SetVar("orderby", params.OrderBy)
	}
	s.host.RunAdminQuery(screen, q)

	return domain.EntryFilter{
		Type:    screen,
		Search:  params.Search,
		OrderBy: q.StringVar("orderby"),
		MetaKey: q.StringVar("meta_key"),
		Desc:    params.Desc,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}
}

// renderTermCells fills built-in columns from the term itself; everything
// else starts empty and goes through the registered term renderers, which
// transform content rather than write it.
func (s *adminService) renderTermCells(taxonomy string, columns []cpt.Column, term domain.Term) map[string]string {
	cells := make(map[string]string, len(columns))
	for _, col := range columns {
		switch col.ID {
		case "name":
			cells[col.ID] = term.Name
		case "slug":
			cells[col.ID] = term.Slug
		case "count":
			cells[col.ID] = fmt.Sprintf("%d", term.Count)
		default:
			cells[col.ID] = s.host.RenderTermCell(taxonomy, "", col.ID, term.ID)
		}
	}
	return cells
}

// renderCells fills built-in columns from the entry itself and routes
// everything else through the registered cell renderers.
func (s *adminService) renderCells(screen string, columns []cpt.Column, entry domain.Entry) map[string]string {
	cells := make(map[string]string, len(columns))
	for _, col := range columns {
		switch col.ID {
		case "title":
			cells[col.ID] = entry.Title
		case "author":
			cells[col.ID] = entry.Author
		case "date":
			cells[col.ID] = entry.CreatedAt.Format("2006-01-02")
		default:
			var buf bytes.Buffer
			s.host.RenderPostCell(screen, &buf, col.ID, entry.ID)
			cells[col.ID] = buf.String()
		}
	}
	return cells
}
