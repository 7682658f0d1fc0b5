package reports

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/openvillage/reportd/internal/model"
	"github.com/openvillage/reportd/internal/worker"
)

// resolveJob assembles one report: resolve the claim's metadata, match it
// against the editorial list by title, and look up the funded amount.
type resolveJob struct {
	ctx       context.Context // caller context; the pool's context only governs shutdown
	pos       int
	claim     model.Claim
	metadata  MetadataSource
	editorial EditorialSource
	byTitle   map[string]model.CMSReport
}

type resolveResult struct {
	pos    int
	report model.Report
	err    error
}

func (r *resolveResult) Err() error { return r.err }
func (r *resolveResult) Pos() int   { return r.pos }

func (j *resolveJob) Execute(_ context.Context) worker.Result {
	md, err := j.metadata.Metadata(j.ctx, j.claim.URI)
	if err != nil {
		return &resolveResult{pos: j.pos, err: fmt.Errorf("claim %s: %w", j.claim.ID, err)}
	}

	// Case-sensitive exact title match against the editorial list.
	cmsReport, ok := j.byTitle[md.Name]
	if !ok {
		return &resolveResult{pos: j.pos, err: fmt.Errorf("claim %s: %w: title %q", j.claim.ID, ErrNoMatch, md.Name)}
	}

	funded, err := j.editorial.FundedAmount(j.ctx, j.claim.ID)
	if err != nil {
		return &resolveResult{pos: j.pos, err: fmt.Errorf("claim %s: %w", j.claim.ID, err)}
	}

	report, err := merge(j.claim, md, cmsReport, funded)
	if err != nil {
		return &resolveResult{pos: j.pos, err: err}
	}

	return &resolveResult{pos: j.pos, report: report}
}

// populate fetches everything and assembles the full report list. Any
// failure aborts the whole attempt; nothing partial is kept.
func (s *Store) populate(ctx context.Context) ([]model.Report, error) {
	claims, err := s.claims.ClaimsByOwner(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("fetch claims: %w", err)
	}
	if len(claims) == 0 {
		return []model.Report{}, nil
	}

	// The editorial list is fetched once and matched per claim; exact-match
	// semantics make per-claim re-fetches indistinguishable.
	cmsReports, err := s.editorial.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch editorial list: %w", err)
	}
	byTitle := make(map[string]model.CMSReport, len(cmsReports))
	for _, cr := range cmsReports {
		byTitle[cr.Title] = cr
	}

	pool := worker.NewPool(s.workers)
	pool.Start()
	for i, claim := range claims {
		pool.Submit(&resolveJob{
			ctx:       ctx,
			pos:       i,
			claim:     claim,
			metadata:  s.metadata,
			editorial: s.editorial,
			byTitle:   byTitle,
		})
	}
	results := pool.WaitOrdered(len(claims))

	// Final order matches the indexer's claim order.
	reports := make([]model.Report, len(claims))
	for i, result := range results {
		if result == nil {
			return nil, fmt.Errorf("claim %s: resolution did not complete", claims[i].ID)
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
		reports[i] = result.(*resolveResult).report
	}

	return reports, nil
}

// merge combines a claim, its metadata, its editorial record, and the
// funding total into the served report shape
func merge(claim model.Claim, md *model.Metadata, cr model.CMSReport, funded float64) (model.Report, error) {
	var totalCost float64
	if cr.TotalCost != "" {
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(cr.TotalCost, ",", ""), 64)
		if err != nil {
			return model.Report{}, fmt.Errorf("claim %s: parse total_cost %q: %w", claim.ID, cr.TotalCost, err)
		}
		totalCost = parsed
	}

	return model.Report{
		HypercertID:       claim.ID,
		Title:             md.Name,
		Summary:           md.Description,
		Image:             md.Image,
		OriginalReportURL: md.ExternalURL,
		State:             md.State(),
		Category:          displayValue(md.Hypercert.WorkScope),
		WorkTimeframe:     timeframeValue(md.Hypercert.WorkTimeframe),
		ImpactScope:       displayValue(md.Hypercert.ImpactScope),
		ImpactTimeframe:   timeframeValue(md.Hypercert.ImpactTimeframe),
		Contributors:      md.Hypercert.Contributors.Value,

		CMSID:            cr.ID,
		Status:           cr.Status,
		DateCreated:      cr.DateCreated,
		DateUpdated:      cr.DateUpdated,
		Slug:             cr.Slug,
		Story:            cr.Story,
		Excerpt:          cr.Excerpt,
		BCRatio:          cr.BCRatio,
		VillagesImpacted: cr.VillagesImpacted,
		PeopleImpacted:   cr.PeopleImpacted,
		VerifiedBy:       cr.VerifiedBy,
		Byline:           cr.Byline,

		TotalCost:   totalCost,
		FundedSoFar: funded,
	}, nil
}

func displayValue(attr model.ScopeAttribute) string {
	if attr.DisplayValue != "" {
		return attr.DisplayValue
	}
	return strings.Join(attr.Value, ", ")
}

func timeframeValue(attr model.TimeframeAttribute) string {
	if attr.DisplayValue != "" {
		return attr.DisplayValue
	}
	if len(attr.Value) >= 2 && attr.Value[1] > 0 {
		return fmt.Sprintf("%d to %d", attr.Value[0], attr.Value[1])
	}
	if len(attr.Value) >= 1 && attr.Value[0] > 0 {
		return fmt.Sprintf("%d onwards", attr.Value[0])
	}
	return ""
}
