package services

import (
	"context"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
	"github.com/mehrdadh/hangout_bot/internal/security"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/geo"
)

// Constraints are one member's inputs for a round.
type Constraints struct {
	PriceLimit      int
	DistanceLimitKm float64
	TimeOfDay       float64
	Preference      string
}

// Readiness reports how many members have responded so far. Advisory: the
// count is re-read at close time.
type Readiness struct {
	ResponsesReceived int64
	TotalMembers      int64
}

// HangoutService owns the per-group active-round state machine.
type HangoutService struct {
	hangoutRepo *repositories.HangoutRepository
	groupRepo   *repositories.GroupRepository
	recommender *RecommendationService
}

func NewHangoutService(hangoutRepo *repositories.HangoutRepository, groupRepo *repositories.GroupRepository, recommender *RecommendationService) *HangoutService {
	return &HangoutService{
		hangoutRepo: hangoutRepo,
		groupRepo:   groupRepo,
		recommender: recommender,
	}
}

// OpenRound opens a new active round for the group. At most one round per
// group is active; the store's partial unique index decides concurrent
// opens.
func (s *HangoutService) OpenRound(groupID, creatorID uint) (*models.HangoutRequest, error) {
	isMember, err := s.groupRepo.IsMember(groupID, creatorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New(errors.ErrCodeForbidden, "only group members can open a round")
	}

	return s.hangoutRepo.CreateRequest(groupID, creatorID)
}

// SubmitResponse records one member's constraints for an active round.
// Responses are immutable; a duplicate submit is a conflict.
func (s *HangoutService) SubmitResponse(requestID, userID uint, c Constraints) (*models.HangoutResponse, error) {
	if c.PriceLimit < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "price limit must not be negative")
	}
	if c.DistanceLimitKm <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "distance limit must be positive")
	}
	if c.TimeOfDay < 0 || c.TimeOfDay >= 24 {
		return nil, errors.New(errors.ErrCodeValidation, "time of day must be in [0,24)")
	}

	request, err := s.hangoutRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.HangoutStatusActive {
		return nil, errors.New(errors.ErrCodeInvalidState, "round is not active")
	}

	isMember, err := s.groupRepo.IsMember(request.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New(errors.ErrCodeForbidden, "only group members can respond")
	}

	response := &models.HangoutResponse{
		RequestID:       requestID,
		UserID:          userID,
		PriceLimit:      c.PriceLimit,
		DistanceLimitKm: c.DistanceLimitKm,
		TimeOfDay:       c.TimeOfDay,
		Preference:      security.CleanText(c.Preference),
	}

	if err := s.hangoutRepo.CreateResponse(response); err != nil {
		return nil, err
	}

	return response, nil
}

// GetReadiness reports (responsesReceived, totalMembers) for a round.
func (s *HangoutService) GetReadiness(requestID uint) (*Readiness, error) {
	request, err := s.hangoutRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	received, err := s.hangoutRepo.CountResponses(requestID)
	if err != nil {
		return nil, err
	}

	total, err := s.groupRepo.MemberCount(request.GroupID)
	if err != nil {
		return nil, err
	}

	return &Readiness{ResponsesReceived: received, TotalMembers: total}, nil
}

// CloseRound completes a round and returns the ranked candidate list. Only
// the group's creator may close; a round with zero responses cannot close.
// A failing place search degrades to the fallback catalog inside the
// aggregator, so closing always yields a list (possibly empty) once the
// guards pass.
func (s *HangoutService) CloseRound(ctx context.Context, requestID, actingUserID uint) ([]Candidate, error) {
	request, err := s.hangoutRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetGroupByID(request.GroupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != actingUserID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the group creator can close a round")
	}

	if request.Status != models.HangoutStatusActive {
		return nil, errors.New(errors.ErrCodeInvalidState, "round is not active")
	}

	// Re-read the count at close time rather than trusting the advisory
	// readiness value
	received, err := s.hangoutRepo.CountResponses(requestID)
	if err != nil {
		return nil, err
	}
	if received == 0 {
		return nil, errors.New(errors.ErrCodeInvalidState, "cannot close a round with no responses")
	}

	responses, err := s.hangoutRepo.GetResponses(requestID)
	if err != nil {
		return nil, err
	}

	members, err := s.groupRepo.GetMembers(request.GroupID)
	if err != nil {
		return nil, err
	}

	locations := make([]geo.Point, 0, len(members))
	for _, member := range members {
		if member.HasLocation() {
			locations = append(locations, geo.Point{Lat: member.Latitude, Lng: member.Longitude})
		}
	}

	candidates, err := s.recommender.Aggregate(ctx, locations, responses)
	if err != nil {
		return nil, err
	}

	// Completing after aggregation keeps the round open if aggregation
	// could not run at all; the status guard resolves a concurrent close
	if err := s.hangoutRepo.CompleteRequest(requestID); err != nil {
		return nil, err
	}

	return candidates, nil
}

// ActiveRound returns the group's active round, if any.
func (s *HangoutService) ActiveRound(groupID uint) (*models.HangoutRequest, error) {
	return s.hangoutRepo.GetActiveRequest(groupID)
}

// LatestRound returns the most recent round for the group regardless of
// status.
func (s *HangoutService) LatestRound(groupID uint) (*models.HangoutRequest, error) {
	return s.hangoutRepo.GetLatestRequest(groupID)
}

// GetRound resolves a round by its public ID, for callbacks and deep links.
func (s *HangoutService) GetRound(publicID string) (*models.HangoutRequest, error) {
	return s.hangoutRepo.GetRequestByPublicID(publicID)
}
