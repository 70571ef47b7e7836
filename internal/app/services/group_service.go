package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/groupprovider"
	"github.com/yigit/coursedesk/internal/pkg/metrics"
	"github.com/yigit/coursedesk/internal/pkg/validation"
)

const groupsCacheKey = "groups"

// GroupProvider is the external messaging-group API
type GroupProvider interface {
	ListGroups(ctx context.Context) (json.RawMessage, error)
	AttemptDirectAdd(ctx context.Context, chatID, participantID string) groupprovider.AddResult
	FetchInviteLink(ctx context.Context, chatID string) (string, error)
}

// InvitationStatus is the final state of one invitation attempt
type InvitationStatus string

const (
	InvitationAdded           InvitationStatus = "ADDED"
	InvitationInviteLinkReady InvitationStatus = "INVITE_LINK_READY"
	InvitationFailed          InvitationStatus = "FAILED"
)

// InvitationResult describes how a participant was (or was not) brought into a group
type InvitationResult struct {
	Status           InvitationStatus
	ParticipantID    string
	ProviderResponse interface{}
	InviteLink       string
	InviteMessage    string
	DirectAddError   string
	InviteError      string
}

// ManualActionRequired is true whenever the participant was not added directly
func (r *InvitationResult) ManualActionRequired() bool {
	return r.Status != InvitationAdded
}

// GroupService proxies the group provider and runs the invitation flow
type GroupService struct {
	provider GroupProvider
	cache    *ristretto.Cache[string, json.RawMessage]
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewGroupService creates a GroupService. A non-positive cacheTTL disables
// caching of the group listing.
func NewGroupService(provider GroupProvider, cacheTTL time.Duration, logger zerolog.Logger) (*GroupService, error) {
	s := &GroupService{
		provider: provider,
		cacheTTL: cacheTTL,
		logger:   logger,
	}

	if cacheTTL > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, json.RawMessage]{
			NumCounters: 100,
			MaxCost:     8 << 20,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create groups cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Close releases the listing cache
func (s *GroupService) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// ListGroups returns the provider's groups, served from cache while fresh
func (s *GroupService) ListGroups(ctx context.Context) (json.RawMessage, error) {
	if s.cache != nil {
		if groups, ok := s.cache.Get(groupsCacheKey); ok {
			metrics.GroupsCacheLookups.WithLabelValues("hit").Inc()
			return groups, nil
		}
		metrics.GroupsCacheLookups.WithLabelValues("miss").Inc()
	}

	groups, err := s.provider.ListGroups(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch groups from provider")
		return nil, apperrors.NewCustomError(apperrors.ErrUpstreamProvider, "failed to fetch groups: "+err.Error())
	}

	if s.cache != nil {
		s.cache.SetWithTTL(groupsCacheKey, groups, int64(len(groups)), s.cacheTTL)
		s.cache.Wait()
	}
	return groups, nil
}

// BuildInviteMessage renders the text an admin sends along with an invite link
func BuildInviteMessage(studentName, courseName, link string) string {
	studentName = strings.TrimSpace(studentName)
	courseName = strings.TrimSpace(courseName)

	var b strings.Builder
	if studentName != "" {
		fmt.Fprintf(&b, "Hi %s! ", studentName)
	}
	if courseName != "" {
		fmt.Fprintf(&b, "You are registered for %s. ", courseName)
	}
	b.WriteString("Join the course group on WhatsApp: ")
	b.WriteString(link)
	return b.String()
}

// AddParticipant tries to add the first requested participant to chatID and
// falls back to an invite link when the provider refuses. Only invalid input is
// returned as an error; provider failures are reported in the result.
func (s *GroupService) AddParticipant(ctx context.Context, chatID string, req *dto.AddParticipantsRequest) (*InvitationResult, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, apperrors.NewValidationError("chatId is required")
	}
	if req == nil {
		return nil, apperrors.NewValidationError("participants must contain at least one participant")
	}
	ids := req.ParticipantIDs()
	if err := validation.ValidateParticipantIDs(ids); err != nil {
		return nil, err
	}

	result := &InvitationResult{ParticipantID: strings.TrimSpace(ids[0])}
	log := s.logger.With().Str("chatId", chatID).Str("participantId", result.ParticipantID).Logger()

	added := s.provider.AttemptDirectAdd(ctx, chatID, result.ParticipantID)
	if added.Success {
		result.Status = InvitationAdded
		result.ProviderResponse = added.Response
		s.record(log, result)
		return result, nil
	}
	result.DirectAddError = added.Reason

	link, err := s.provider.FetchInviteLink(ctx, chatID)
	if err != nil {
		result.Status = InvitationFailed
		result.InviteError = err.Error()
		s.record(log, result)
		return result, nil
	}

	result.Status = InvitationInviteLinkReady
	result.InviteLink = link
	result.InviteMessage = BuildInviteMessage(req.StudentName, req.CourseName, link)
	s.record(log, result)
	return result, nil
}

func (s *GroupService) record(log zerolog.Logger, result *InvitationResult) {
	metrics.InvitationOutcomesTotal.WithLabelValues(string(result.Status)).Inc()

	switch result.Status {
	case InvitationAdded:
		log.Info().Msg("Participant added to group")
	case InvitationInviteLinkReady:
		log.Warn().Str("directAddError", result.DirectAddError).Msg("Direct add failed, invite link prepared")
	default:
		log.Error().Str("directAddError", result.DirectAddError).Str("inviteError", result.InviteError).Msg("Participant invitation failed")
	}
}
