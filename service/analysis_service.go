package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/utils"
	"github.com/google/uuid"
)

// maxBidRows bounds the profit matrix a single request can ask for.
const maxBidRows = 2000

// AnalysisStore persists finished analyses.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, result *dto.AnalysisResult) error
	ListAnalyses(ctx context.Context, limit int) ([]dto.AnalysisSummary, error)
	GetAnalysis(ctx context.Context, id string) (*dto.AnalysisResult, error)
}

// ScenarioDefaults are the calling-layer defaults used to build a scenario
// from a listing and an estimate.
type ScenarioDefaults struct {
	Assumptions        dto.Assumptions
	LoanToAppraisal    float64
	BidSpan            int64
	FallbackStartRatio float64
	ViewWindowM2       float64
	ViewRows           int
}

// AnalysisInput is one analysis request. Listing, when set, is a reviewed
// listing and replaces PDF parsing.
type AnalysisInput struct {
	PDF         []byte
	Password    string
	Listing     *dto.ExtractedListing
	Comps       []byte
	Assumptions *dto.Assumptions
	LoanAmount  *int64
}

// AnalysisService wires extraction, estimation and the scenario together.
type AnalysisService struct {
	listings *ListingService
	comps    *CompsLoader
	store    AnalysisStore
	defaults ScenarioDefaults
	logger   *slog.Logger
	now      func() time.Time
}

func NewAnalysisService(listings *ListingService, comps *CompsLoader, store AnalysisStore, defaults ScenarioDefaults, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		listings: listings,
		comps:    comps,
		store:    store,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs the whole pipeline and stores the result. Only an unreadable
// comparables table, invalid assumptions or a document without any text stop
// it; everything else degrades to nil fields for the reviewer to fill in.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalysisInput) (*dto.AnalysisResult, error) {
	start := s.now()
	result := &dto.AnalysisResult{
		ID:        uuid.NewString(),
		CreatedAt: start.UTC(),
	}
	log := s.logger.With("analysis_id", result.ID)
	log.Info("analysis.start", "reviewed_listing", in.Listing != nil)

	switch {
	case in.Listing != nil:
		result.Listing = reviewedListing(*in.Listing)
		result.ReviewSnippet = utils.CleanSnippet(in.Listing.RawTextSnippet)
		result.RoundEstimate = estimateRound(*in.Listing)
		result.Links = ResolveLinks(in.Listing.Links)
	case len(in.PDF) > 0:
		parsed, err := s.listings.ExtractListing(ctx, in.PDF, in.Password)
		if err != nil {
			return nil, fmt.Errorf("extract listing: %w", err)
		}
		result.Listing = parsed.Listing
		result.ReviewSnippet = parsed.ReviewSnippet
		result.RoundEstimate = parsed.RoundEstimate
		result.Links = parsed.Links
	default:
		return nil, dto.ErrListingRequired
	}

	assumptions := s.defaults.Assumptions
	if in.Assumptions != nil {
		assumptions = *in.Assumptions
	}
	if err := assumptions.Validate(); err != nil {
		return nil, err
	}

	comps, err := s.comps.Load(in.Comps)
	if err != nil {
		return nil, fmt.Errorf("load comparables: %w", err)
	}
	result.ComparableCount = len(comps)
	if view, err := s.comps.LoadView(in.Comps); err == nil {
		result.Comparables = SimilarView(view, result.Listing.AreaM2, s.defaults.ViewWindowM2, s.defaults.ViewRows)
	} else {
		log.Warn("analysis.comps_view.failed", "error", err)
	}

	result.Estimate = EstimateSalePriceRange(comps, result.Listing.AreaM2)

	input, err := PlanScenario(result.Listing, result.Estimate, assumptions, in.LoanAmount, s.defaults)
	if err != nil {
		return nil, err
	}
	result.Input = input
	result.Scenario = BuildProfitMatrix(input)
	if band := result.Scenario.RecommendedBand; band != nil {
		taxes := CalcAuctionTaxes(band.High)
		result.Taxes = &taxes
	}
	result.Verdict = DecideVerdict(result.Listing, result.Estimate, result.Scenario)

	if s.store != nil {
		if err := s.store.SaveAnalysis(ctx, result); err != nil {
			return nil, fmt.Errorf("save analysis: %w", err)
		}
	}

	log.Info("analysis.done",
		"comparables", result.ComparableCount,
		"sample_size", result.Estimate.SampleSize,
		"bids", len(result.Scenario.Bids),
		"decision", result.Verdict.Decision,
		"latency_ms", s.now().Sub(start).Milliseconds(),
	)
	return result, nil
}

// reviewedListing marks a minimum bid that arrived without a source as
// entered by hand.
func reviewedListing(l dto.ExtractedListing) dto.ExtractedListing {
	if l.MinimumBid != nil && l.MinimumBidSource == "" {
		l.MinimumBidSource = dto.MinBidManual
		l.MinimumBidLowConfidence = false
	}
	return l
}

// PlanScenario derives the bid grid, loan and sale prices from the listing
// and the estimate:
//   - loan = appraisal * LoanToAppraisal unless given
//   - bids run from the minimum bid (or appraisal * FallbackStartRatio when
//     it is unknown) to BidSpan above that
//   - sale prices are the estimate's low, mid and high
func PlanScenario(listing dto.ExtractedListing, estimate dto.PriceEstimate, a dto.Assumptions, loan *int64, d ScenarioDefaults) (dto.ScenarioInput, error) {
	appraisal := deref(listing.AppraisalValue)
	minBid := deref(listing.MinimumBid)

	in := dto.ScenarioInput{Assumptions: a}
	if loan != nil {
		in.LoanAmount = *loan
	} else {
		in.LoanAmount = int64(float64(appraisal) * d.LoanToAppraisal)
	}

	if minBid > 0 {
		in.BidStart = minBid
	} else {
		in.BidStart = int64(float64(appraisal) * d.FallbackStartRatio)
	}
	in.BidEnd = in.BidStart + d.BidSpan
	if a.BidStep > 0 && (in.BidEnd-in.BidStart)/a.BidStep > maxBidRows {
		return dto.ScenarioInput{}, fmt.Errorf("%w: bid step %d gives more than %d rows", dto.ErrInvalidAssumptions, a.BidStep, maxBidRows)
	}

	if estimate.Available() {
		in.SalePrices = []int64{*estimate.Low, *estimate.Mid, *estimate.High}
	}
	return in, nil
}

// List returns the most recent analyses.
func (s *AnalysisService) List(ctx context.Context, limit int) ([]dto.AnalysisSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListAnalyses(ctx, limit)
}

// Get returns one stored analysis.
func (s *AnalysisService) Get(ctx context.Context, id string) (*dto.AnalysisResult, error) {
	if s.store == nil {
		return nil, dto.ErrCaseNotFound
	}
	res, err := s.store.GetAnalysis(ctx, id)
	if errors.Is(err, dto.ErrCaseNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", id, err)
	}
	return res, nil
}
