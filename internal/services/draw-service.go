package services

import (
	"log"
	"sync"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/repository"
)

type DrawParams struct {
	// number of desired "currently" selected per pool
	NumberOfSeats   int
	MinFemaleQuota  float64
	MaxCompanyQuota float64
}

var DefaultDrawParams = DrawParams{
	NumberOfSeats:   50,
	MinFemaleQuota:  0.35,
	MaxCompanyQuota: 0.2,
}

// drawUnionStatuses is the population the quotas are computed over: the
// quota is cumulative across repeated draw runs, not per-run.
var drawUnionStatuses = []string{
	domain.StatusDrawn,
	domain.StatusInterview,
	domain.StatusSelected,
	domain.StatusToBeAccepted,
	domain.StatusAccepted,
}

type drawCounters struct {
	total   int
	female  int
	company int
}

func (c *drawCounters) update(profile *domain.Profile) {
	c.total++
	if profile.Gender == domain.GenderFemale {
		c.female++
	}
	if profile.TicketType == domain.TicketCompany {
		c.company++
	}
}

// mustPickFemale tests the female fraction as it would be if the next pick
// were not female: if that would sink below the floor, only females may be
// drawn this round.
func mustPickFemale(params DrawParams, c drawCounters) bool {
	femaleFractionIfNonFemaleDrawn := float64(c.female) / float64(c.total+1)
	return femaleFractionIfNonFemaleDrawn < params.MinFemaleQuota
}

// mustNotPickCompany tests the company fraction as it would be if the next
// pick were a company ticket: if that would breach the ceiling, company
// tickets are excluded this round.
func mustNotPickCompany(params DrawParams, c drawCounters) bool {
	companyFractionIfCompanyDrawn := float64(c.company+1) / float64(c.total+1)
	return companyFractionIfCompanyDrawn >= params.MaxCompanyQuota
}

type DrawService interface {
	// Draw fills the pool's seats one uniform random pick at a time,
	// restricting the pool per round to keep the quotas satisfiable and
	// relaxing the restrictions when they empty the pool.
	Draw(params DrawParams, scholarship bool) error
}

type drawService struct {
	selRepo     repository.SelectionRepository
	profileRepo repository.ProfileRepository

	// the loop reads counters and writes ranks iteratively; concurrent
	// draws against the same pool would race, so runs are serialized
	mu sync.Mutex
}

func NewDrawService(selRepo repository.SelectionRepository, profileRepo repository.ProfileRepository) DrawService {
	return &drawService{selRepo: selRepo, profileRepo: profileRepo}
}

func (s *drawService) Draw(params DrawParams, scholarship bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selRepo.Transaction(func(txRepo repository.SelectionRepository) error {
		return s.draw(txRepo, params, scholarship)
	})
}

// drawNext walks the relaxation ladder: full constraints, ticket constraint
// only, gender constraint only, none, and for scholarship draws finally the
// whole waiting pool regardless of partition. nil means truly exhausted.
func (s *drawService) drawNext(repo repository.SelectionRepository, scholarship bool, forbiddenGenders, forbiddenTickets []string) (*domain.Selection, error) {
	pool := &scholarship

	attempts := []repository.DrawFilter{
		{Scholarship: pool, ForbiddenGenders: forbiddenGenders, ForbiddenTickets: forbiddenTickets},
		{Scholarship: pool, ForbiddenTickets: forbiddenTickets},
		{Scholarship: pool, ForbiddenGenders: forbiddenGenders},
		{Scholarship: pool},
	}
	if scholarship {
		attempts = append(attempts, repository.DrawFilter{})
	}

	for _, filter := range attempts {
		candidate, err := repo.RandomPassedTest(filter)
		if err != nil {
			return nil, err
		}
		if candidate != nil {
			return candidate, nil
		}
	}
	return nil, nil
}

func (s *drawService) draw(repo repository.SelectionRepository, params DrawParams, scholarship bool) error {
	seed, err := repo.DrawPoolCounters(scholarship, drawUnionStatuses)
	if err != nil {
		return err
	}
	counters := drawCounters{total: seed.Total, female: seed.Female, company: seed.Company}

	maxRank, err := repo.MaxDrawRank(scholarship)
	if err != nil {
		return err
	}
	nextRank := maxRank + 1

	for counters.total < params.NumberOfSeats {
		var forbiddenGenders []string
		if mustPickFemale(params, counters) {
			forbiddenGenders = []string{domain.GenderMale, domain.GenderOther}
		}

		var forbiddenTickets []string
		if mustNotPickCompany(params, counters) {
			forbiddenTickets = []string{domain.TicketCompany}
		}

		candidate, err := s.drawNext(repo, scholarship, forbiddenGenders, forbiddenTickets)
		if err != nil {
			return err
		}
		if candidate == nil {
			// pool exhausted, fewer seats filled than asked for
			log.Printf("draw(scholarship=%t): pool exhausted at %d/%d seats", scholarship, counters.total, params.NumberOfSeats)
			break
		}

		rank := nextRank
		if err := updateStatus(repo, candidate, domain.StatusDrawn, &rank, "", ""); err != nil {
			return err
		}

		profile, err := s.profileRepo.FindByCandidateID(candidate.CandidateID)
		if err != nil {
			return err
		}
		counters.update(profile)
		nextRank++
	}

	return nil
}
