package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"printshop-pricing-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers price-impact events: when a machine or ink set is
// edited, every pricing profile bound to it has its sell prices shifted, and
// subscribers to those profiles get a push message.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case profileID := <-wp.jobs:
			wp.notifyProfileWatchers(ctx, profileID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a price-impact event for one pricing profile.
func (wp *WorkerPool) Dispatch(profileID int64) {
	wp.jobs <- profileID
}

// notifyProfileWatchers fetches the profile's subscriptions and pushes a
// price-change message to each.
func (wp *WorkerPool) notifyProfileWatchers(ctx context.Context, profileID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_profile_mapping spm ON spm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("spm.pricing_profile_id = ?", profileID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for pricing profile %d: %v", profileID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for pricing profile %d", len(subscriptions), profileID)

	var profile model.PricingProfile
	profileLabel := fmt.Sprintf("%d", profileID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&profile, profileID).Error; err != nil {
		log.Printf("Error fetching pricing profile %d: %v", profileID, err)
	} else if profile.Name != "" {
		profileLabel = profile.Name
	}

	message := fmt.Sprintf("Pricing profile %s changed: dependent prices are affected", profileLabel)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
