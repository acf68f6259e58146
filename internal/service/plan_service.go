package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/marketpo/internal/cache"
	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/loader"
	"github.com/andresuchdata/marketpo/internal/planner"
	"github.com/andresuchdata/marketpo/internal/sku"
)

// SalesUpload is one marketplace report handed in by a caller (HTTP upload
// or CLI flag). Platform selects the loader.
type SalesUpload struct {
	Platform string
	Filename string
	Data     []byte
}

// PlanService parses uploaded sales reports, runs the planning engine and
// memoizes results per (params, inputs) so repeated submissions of the same
// files are served from cache.
type PlanService struct {
	engine *planner.Engine
	cache  cache.PlanCache
}

func NewPlanService(planCache cache.PlanCache) *PlanService {
	return &PlanService{
		engine: planner.NewEngine(),
		cache:  planCache,
	}
}

// GeneratePlan parses each upload concurrently, then runs one synchronous
// planning pass over the combined record sets. Loader warnings are carried
// onto the result alongside the engine's own.
func (s *PlanService) GeneratePlan(ctx context.Context, uploads []SalesUpload, master *catalog.Master, params domain.PlanningParams) (*planner.Result, error) {
	key := cache.BuildPlanKey(params, uploadDigests(uploads))
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("plan cache lookup failed")
	} else if ok {
		log.Debug().Str("key", key).Msg("serving plan from cache")
		return cached, nil
	}

	sets := make([][]domain.SalesRecord, len(uploads))
	warnings := make([][]domain.RowWarning, len(uploads))

	g, _ := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		i, upload := i, upload
		g.Go(func() error {
			parsed, err := parseUpload(upload)
			if err != nil {
				return err
			}
			sets[i] = parsed.Records
			warnings[i] = parsed.Warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := s.engine.Run(sets, master, params)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, w...)
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		log.Warn().Err(err).Msg("plan cache store failed")
	}

	return result, nil
}

// GenerateLightweightPlan runs the catalog-free variant over already-parsed
// records. The lightweight path takes its tables from the request itself,
// so there is nothing to cache.
func (s *PlanService) GenerateLightweightPlan(records []domain.SalesRecord, multipliers map[string]string, categories map[string]string, params domain.PlanningParams) (*planner.Result, error) {
	table, warnings := sku.NewMultiplierTable(multipliers)
	classifier := sku.NewCategoryClassifier(categories)

	result, err := s.engine.RunLightweight([][]domain.SalesRecord{records}, table, classifier, params)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	return result, nil
}

func parseUpload(upload SalesUpload) (*loader.Result, error) {
	r := bytes.NewReader(upload.Data)
	switch strings.ToLower(strings.TrimSpace(upload.Platform)) {
	case "amazon":
		return loader.LoadAmazonCSV(r)
	case "flipkart":
		return loader.LoadFlipkartXLSX(r)
	case "meesho":
		return loader.LoadMeeshoCSV(r)
	default:
		return nil, domain.NewFatalInputError("sales_upload", "unknown platform %q for file %s", upload.Platform, upload.Filename)
	}
}

func uploadDigests(uploads []SalesUpload) []string {
	digests := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		sum := sha1.Sum(upload.Data)
		digests = append(digests, fmt.Sprintf("%s:%s", strings.ToLower(upload.Platform), hex.EncodeToString(sum[:])))
	}
	return digests
}
