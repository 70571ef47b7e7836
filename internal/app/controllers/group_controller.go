package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/app/services"
	"github.com/yigit/coursedesk/internal/middleware"
)

// GroupController exposes the messaging-group provider
type GroupController struct {
	groupService *services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService *services.GroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// GetGroups lists the provider's groups
// @Summary List messaging groups
// @Description Returns the provider's group listing unchanged. Results are cached briefly.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Groups retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Provider request failed"
// @Router /groups [get]
func (c *GroupController) GetGroups(ctx *gin.Context) {
	groups, err := c.groupService.ListGroups(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(groups, ""))
}

// AddParticipant invites a participant into a group
// @Summary Add a participant to a group
// @Description Tries to add the first participant directly. When the provider refuses, an invite link and message are
// @Description returned instead (success=false, HTTP 200). If the invite link cannot be fetched either, HTTP 500.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Group ID" example(120363025@g.us)
// @Param request body dto.AddParticipantsRequest true "Participant and optional names for the invite message"
// @Success 200 {object} dto.APIResponse{data=dto.InvitationResponse} "Participant added, or invite link ready"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 500 {object} dto.APIResponse{data=dto.InvitationResponse} "Participant could not be added or invited"
// @Router /groups/{chatId}/participants/add [post]
func (c *GroupController) AddParticipant(ctx *gin.Context) {
	var req dto.AddParticipantsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.groupService.AddParticipant(ctx.Request.Context(), ctx.Param("chatId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data := &dto.InvitationResponse{
		Status:               string(result.Status),
		ParticipantID:        result.ParticipantID,
		ProviderResponse:     result.ProviderResponse,
		InviteLink:           result.InviteLink,
		InviteMessage:        result.InviteMessage,
		DirectAddError:       result.DirectAddError,
		InviteError:          result.InviteError,
		ManualActionRequired: result.ManualActionRequired(),
	}

	switch result.Status {
	case services.InvitationAdded:
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, "Participant added to group"))
	case services.InvitationInviteLinkReady:
		ctx.JSON(http.StatusOK, dto.NewErrorResponse("", result.DirectAddError).
			WithData(data).
			WithMessage("Participant could not be added directly; send the invite link manually"))
	default:
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeExternalServiceError,
			"Participant could not be added and no invite link is available; manual intervention is required").
			WithData(data))
	}
}
