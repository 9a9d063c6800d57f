// Package api exposes device endpoint registration over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
	"github.com/tinywideclouds/go-microservice-base/pkg/response"
	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"

	"github.com/tinywideclouds/go-sns-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// TopicSubscriber is the subset of snsq.TopicService the API uses.
type TopicSubscriber interface {
	SubscribeMobile(ctx context.Context, topicArn, endpointArn string) (*sns.SubscribeOutput, error)
}

type DeviceAPI struct {
	Store        dispatch.EndpointStore
	Endpoints    dispatch.EndpointManager
	Topics       TopicSubscriber
	Applications map[platform.Platform]string
	Logger       *slog.Logger
}

func NewDeviceAPI(
	store dispatch.EndpointStore,
	endpoints dispatch.EndpointManager,
	topics TopicSubscriber,
	applications map[platform.Platform]string,
	logger *slog.Logger,
) *DeviceAPI {
	return &DeviceAPI{
		Store:        store,
		Endpoints:    endpoints,
		Topics:       topics,
		Applications: applications,
		Logger:       logger.With("component", "DeviceAPI"),
	}
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type RegisterDeviceResponse struct {
	EndpointARN string `json:"endpointArn"`
}

type UnregisterDeviceRequest struct {
	EndpointARN string `json:"endpointArn"`
}

type SubscribeRequest struct {
	TopicARN    string `json:"topicArn"`
	EndpointARN string `json:"endpointArn"`
}

type SubscribeResponse struct {
	SubscriptionARN string `json:"subscriptionArn"`
}

// RegisterDevice creates an SNS endpoint for the caller's device token and
// records it against the caller.
func (api *DeviceAPI) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userURN, ok := api.authenticatedUser(w, r)
	if !ok {
		return
	}

	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Token == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "missing token")
		return
	}
	p, err := platform.Parse(req.Platform)
	if err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "unknown platform")
		return
	}
	appArn, ok := api.Applications[p]
	if !ok || appArn == "" {
		api.Logger.Warn("RegisterDevice: platform not configured", "platform", p)
		response.WriteJSONError(w, http.StatusBadRequest, "platform not supported")
		return
	}

	out, err := api.Endpoints.Create(ctx, appArn, req.Token, userURN.String(), nil)
	if err != nil {
		api.Logger.Error("RegisterDevice: SNS endpoint creation failed", "platform", p, "err", err)
		response.WriteJSONError(w, http.StatusBadGateway, "endpoint creation failed")
		return
	}
	endpointArn := aws.ToString(out.EndpointArn)

	device := dispatch.Device{
		EndpointARN: endpointArn,
		Platform:    p,
		Token:       req.Token,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := api.Store.Register(ctx, userURN, device); err != nil {
		api.Logger.Error("RegisterDevice: storage failed", "endpoint_arn", endpointArn, "err", err)
		response.WriteJSONError(w, http.StatusInternalServerError, "storage failed")
		return
	}
	api.Logger.Info("RegisterDevice: endpoint registered", "user", userURN.String(), "platform", p, "endpoint_arn", endpointArn)

	response.WriteJSON(w, http.StatusCreated, RegisterDeviceResponse{EndpointARN: endpointArn})
}

// UnregisterDevice deletes one of the caller's endpoints.
func (api *DeviceAPI) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userURN, ok := api.authenticatedUser(w, r)
	if !ok {
		return
	}

	var req UnregisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.EndpointARN == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "missing endpointArn")
		return
	}
	if !api.ownsEndpoint(w, r, userURN, req.EndpointARN) {
		return
	}

	if _, err := api.Endpoints.Delete(ctx, req.EndpointARN); err != nil {
		// the registry entry is still removed; a stale SNS endpoint is harmless
		api.Logger.Warn("UnregisterDevice: SNS endpoint delete failed", "endpoint_arn", req.EndpointARN, "err", err)
	}
	if err := api.Store.Unregister(ctx, userURN, req.EndpointARN); err != nil {
		api.Logger.Error("UnregisterDevice: storage failed", "endpoint_arn", req.EndpointARN, "err", err)
		response.WriteJSONError(w, http.StatusInternalServerError, "failed to unregister device")
		return
	}
	api.Logger.Info("UnregisterDevice: endpoint removed", "user", userURN.String(), "endpoint_arn", req.EndpointARN)

	w.WriteHeader(http.StatusNoContent)
}

// SubscribeTopic subscribes one of the caller's endpoints to a topic.
func (api *DeviceAPI) SubscribeTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userURN, ok := api.authenticatedUser(w, r)
	if !ok {
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TopicARN == "" || req.EndpointARN == "" {
		response.WriteJSONError(w, http.StatusBadRequest, "topicArn and endpointArn are required")
		return
	}
	if !api.ownsEndpoint(w, r, userURN, req.EndpointARN) {
		return
	}

	out, err := api.Topics.SubscribeMobile(ctx, req.TopicARN, req.EndpointARN)
	if err != nil {
		api.Logger.Error("SubscribeTopic: SNS subscribe failed", "topic_arn", req.TopicARN, "err", err)
		response.WriteJSONError(w, http.StatusBadGateway, "subscribe failed")
		return
	}

	response.WriteJSON(w, http.StatusOK, SubscribeResponse{SubscriptionARN: aws.ToString(out.SubscriptionArn)})
}

func (api *DeviceAPI) authenticatedUser(w http.ResponseWriter, r *http.Request) (user urn.URN, ok bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return user, false
	}
	user, err := urn.Parse(userID)
	if err != nil {
		api.Logger.Warn("Rejected malformed user id", "user", userID, "err", err)
		response.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return user, false
	}
	return user, true
}

// ownsEndpoint writes the error response itself when it returns false.
func (api *DeviceAPI) ownsEndpoint(w http.ResponseWriter, r *http.Request, user urn.URN, endpointArn string) bool {
	devices, err := api.Store.Fetch(r.Context(), user)
	if err != nil {
		api.Logger.Error("Failed to load user endpoints", "err", err)
		response.WriteJSONError(w, http.StatusInternalServerError, "storage failed")
		return false
	}
	for _, d := range devices {
		if d.EndpointARN == endpointArn {
			return true
		}
	}
	response.WriteJSONError(w, http.StatusNotFound, "endpoint not found")
	return false
}
