// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cliptube"

var (
	// CacheOperationsTotal tracks count-cache operations.
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of count cache operations",
		},
		[]string{"operation", "status"},
	)

	// EngagementTogglesTotal tracks like/subscription toggles.
	// Labels:
	//   - relation: like, subscription
	//   - result: on, off
	EngagementTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engagement_toggles_total",
			Help:      "Total number of engagement toggle operations",
		},
		[]string{"relation", "result"},
	)

	// AuthOperationsTotal tracks token lifecycle operations.
	// Labels:
	//   - operation: issue, verify, rotate, revoke
	//   - status: success, failure
	AuthOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Total number of token lifecycle operations",
		},
		[]string{"operation", "status"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior on count reads.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Engagement relation constants.
const (
	RelationLike         = "like"
	RelationSubscription = "subscription"
)

// Toggle result constants.
const (
	ToggleOn  = "on"
	ToggleOff = "off"
)

// Auth operation constants.
const (
	AuthOpIssue  = "issue"
	AuthOpVerify = "verify"
	AuthOpRotate = "rotate"
	AuthOpRevoke = "revoke"
)

// Auth status constants.
const (
	AuthStatusSuccess = "success"
	AuthStatusFailure = "failure"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
