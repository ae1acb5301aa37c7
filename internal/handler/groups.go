package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitapp/backend/internal/middleware"
	"github.com/splitapp/backend/internal/models"
)

type createGroupRequest struct {
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	MemberIDs []string `json:"memberIds"`
}

type respondNotificationRequest struct {
	NotificationID string `json:"notificationId"`
	Response       string `json:"response"`
}

type createNotificationRequest struct {
	UserID   string `json:"userId"`
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

type memberRequest struct {
	GroupID  string `json:"groupId"`
	MemberID string `json:"memberId"`
	AdminID  string `json:"adminId"`
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

type notificationResponse struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipientId"`
	SenderID    string `json:"senderId"`
	Type        string `json:"type"`
	GroupID     string `json:"groupId,omitempty"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatorID: g.CreatorID,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
}

func toNotificationResponse(n *models.Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        string(n.Type),
		GroupID:     n.GroupID,
		Message:     n.Message,
		Status:      string(n.Status),
		CreatedAt:   n.CreatedAt,
	}
}

// HandleSearchUsers finds users by username substring.
func (h *Handler) HandleSearchUsers(w http.ResponseWriter, r *http.Request) {
	// An empty query is not an error; it just matches nobody.
	users, err := h.groups.SearchUsers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleCreateGroup creates a group and invites the listed users.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	creatorID := req.CreatorID
	if creatorID == "" {
		creatorID = middleware.GetUserID(r.Context())
	}

	group, err := h.groups.CreateGroup(r.Context(), req.Name, creatorID, req.MemberIDs)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGroupResponse(group))
}

// HandleUserGroups lists the groups a user belongs to.
func (h *Handler) HandleUserGroups(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	groups, err := h.groups.ListUserGroups(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleNotifications lists a user's actionable notifications.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ns, err := h.groups.ListNotifications(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotificationResponse(n))
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleRespondNotification accepts or rejects an invite, or acknowledges
// any other notification.
func (h *Handler) HandleRespondNotification(w http.ResponseWriter, r *http.Request) {
	var req respondNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.NotificationID == "" {
		badRequest(w, "notificationId is required")
		return
	}

	err := h.groups.RespondToNotification(r.Context(), req.NotificationID, models.NotificationStatus(req.Response))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "notification updated")
}

// HandleCreateNotification records a free-form notification.
func (h *Handler) HandleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.UserID == "" || req.Message == "" {
		badRequest(w, "userId and message are required")
		return
	}
	senderID := req.SenderID
	if senderID == "" {
		senderID = middleware.GetUserID(r.Context())
	}

	err := h.groups.CreateNotification(r.Context(), req.UserID, senderID, req.Message, models.NotificationType(req.Type))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "notification created")
}

// HandleAddMember invites a user to a group.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.GroupID == "" || req.MemberID == "" {
		badRequest(w, "groupId and memberId are required")
		return
	}
	adminID := req.AdminID
	if adminID == "" {
		adminID = middleware.GetUserID(r.Context())
	}

	if err := h.groups.InviteMember(r.Context(), req.GroupID, req.MemberID, adminID); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "invite sent")
}

// HandleRemoveMember removes a user from a group.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.GroupID == "" || req.MemberID == "" {
		badRequest(w, "groupId and memberId are required")
		return
	}

	group, err := h.groups.RemoveMember(r.Context(), req.GroupID, req.MemberID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupResponse(group))
}
