// Package firestore keeps the user to SNS endpoint registry in Cloud Firestore.
package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"

	"github.com/tinywideclouds/go-sns-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// EndpointStore implements dispatch.EndpointStore on Firestore.
type EndpointStore struct {
	client *firestore.Client
}

func NewEndpointStore(client *firestore.Client) *EndpointStore {
	return &EndpointStore{client: client}
}

// endpointRecord is the stored document shape.
type endpointRecord struct {
	EndpointARN string    `firestore:"endpoint_arn"`
	Platform    string    `firestore:"platform"`
	Token       string    `firestore:"token"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (s *EndpointStore) Register(ctx context.Context, user urn.URN, device dispatch.Device) error {
	if device.EndpointARN == "" {
		return errors.New("endpoint arn is required")
	}
	updated := device.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	record := endpointRecord{
		EndpointARN: device.EndpointARN,
		Platform:    string(device.Platform),
		Token:       device.Token,
		UpdatedAt:   updated,
	}
	if _, err := s.endpointRef(user, device.EndpointARN).Set(ctx, record); err != nil {
		return fmt.Errorf("failed to store endpoint: %w", err)
	}
	return nil
}

func (s *EndpointStore) Unregister(ctx context.Context, user urn.URN, endpointArn string) error {
	_, err := s.endpointRef(user, endpointArn).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to delete endpoint: %w", err)
	}
	return nil
}

func (s *EndpointStore) Fetch(ctx context.Context, user urn.URN) ([]dispatch.Device, error) {
	iter := s.endpointsCollection(user).Documents(ctx)
	defer iter.Stop()

	devices := make([]dispatch.Device, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore iteration failed: %w", err)
		}

		var record endpointRecord
		if err := doc.DataTo(&record); err != nil {
			// corrupt rows are skipped rather than blocking delivery
			continue
		}
		if record.EndpointARN == "" {
			continue
		}
		devices = append(devices, dispatch.Device{
			EndpointARN: record.EndpointARN,
			Platform:    platform.Platform(record.Platform),
			Token:       record.Token,
			UpdatedAt:   record.UpdatedAt,
		})
	}
	return devices, nil
}

// endpointRef: users/{urn}/endpoints/{sha256(endpointArn)}
func (s *EndpointStore) endpointRef(user urn.URN, endpointArn string) *firestore.DocumentRef {
	return s.endpointsCollection(user).Doc(hashKey(endpointArn))
}

func (s *EndpointStore) endpointsCollection(user urn.URN) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(user.String()).Collection("endpoints")
}

// ARNs contain '/' which Firestore treats as a path separator.
func hashKey(k string) string {
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:])
}
