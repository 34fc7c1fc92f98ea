package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sitetrack/internal/domain"
	"sitetrack/internal/repository"

	"go.uber.org/zap"
)

// seqSuffixRe matches the zero-padded trailing sequence of a generated
// identifier, e.g. the "007" in "SITE-TRL-CHENNAI-RUNNER001-007".
var seqSuffixRe = regexp.MustCompile(`-(\d{3})$`)

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// toCode normalizes a business value into an identifier segment: strip
// everything non-alphanumeric and uppercase. The full cleaned string is
// kept; truncating to a fixed width makes distinct keys collide.
func toCode(v string) string {
	return strings.ToUpper(nonAlnumRe.ReplaceAllString(v, ""))
}

// nextSeq returns the sequence number following lastID's suffix, or 1 when
// there is no prior identifier or no parseable suffix.
func nextSeq(lastID string) int {
	m := seqSuffixRe.FindStringSubmatch(lastID)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n + 1
}

// SequenceService derives the human-readable identifiers. All generators
// are read-only: they scan the latest persisted record for the composite
// key and report the next value without reserving it.
type SequenceService struct {
	sites     repository.SitesRepo
	campaigns repository.CampaignsRepo
	logger    *zap.Logger
}

func NewSequenceService(sites repository.SitesRepo, campaigns repository.CampaignsRepo, logger *zap.Logger) *SequenceService {
	return &SequenceService{sites: sites, campaigns: campaigns, logger: logger}
}

// GenerateSiteID derives SITE-<CUST>-<LOC>-<RUNNER>-<SEQ3> for the business
// key, scoped to the exact (customer, location, runner) combination.
func (s *SequenceService) GenerateSiteID(ctx context.Context, customer, location, runner string) (string, error) {
	if customer == "" || location == "" || runner == "" {
		return "", domain.Validationf("customer_name, location and runner_id are required")
	}

	last, err := s.sites.LastSiteIDForKey(ctx, customer, location, runner)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("SITE-%s-%s-%s-%03d",
		toCode(customer), toCode(location), toCode(runner), nextSeq(last)), nil
}

// GenerateCampaignNo derives CAMP-<CUST>-<LOC>-<RUNNER>[-<LINE>]-<SEQ3>.
// The line segment is included when lineName is non-empty; the sequence is
// scoped to whichever composite key is used.
func (s *SequenceService) GenerateCampaignNo(ctx context.Context, customer, location, runner, lineName string) (string, error) {
	if customer == "" || location == "" || runner == "" {
		return "", domain.Validationf("customer_name, location and runner_id are required")
	}

	last, err := s.campaigns.LastForKey(ctx, customer, location, runner, lineName)
	if err != nil {
		return "", err
	}
	lastNo := ""
	if last != nil {
		lastNo = last.CampaignNo
	}

	codes := []string{toCode(customer), toCode(location), toCode(runner)}
	if lineName != "" {
		codes = append(codes, toCode(lineName))
	}
	return fmt.Sprintf("CAMP-%s-%03d", strings.Join(codes, "-"), nextSeq(lastNo)), nil
}

// GenerateRunnerID derives RUNNER-<SEQ3> from the most recently created
// generated runner id across all sites.
func (s *SequenceService) GenerateRunnerID(ctx context.Context) (string, error) {
	last, err := s.sites.LastRunnerID(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RUNNER-%03d", nextSeq(last)), nil
}
