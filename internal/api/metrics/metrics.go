// Package metrics defines the custom Prometheus metrics of the blog. HTTP
// request metrics come from the echoprometheus middleware; the counters here
// track what users do.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "yatube"

// ── Content ──────────────────────────────────────────────────────────────────

// PostsCreatedTotal counts published posts.
// Label:
//   - grouped: "true" when the post was filed under a group
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
	[]string{"grouped"},
)

var PostsEditedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_edited_total",
		Help:      "Total number of post edits saved by their authors.",
	},
)

var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments added.",
	},
)

// FollowsTotal counts subscription changes.
// Label:
//   - action: "follow" or "unfollow"
var FollowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follows_total",
		Help:      "Total number of follow and unfollow actions.",
	},
	[]string{"action"},
)

// ── Accounts ─────────────────────────────────────────────────────────────────

var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Rendering ────────────────────────────────────────────────────────────────

// TemplateRenderDuration measures page rendering time.
// Label:
//   - template: template name, e.g. "posts/index.html"
var TemplateRenderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "template_render_duration_seconds",
		Help:      "Duration of HTML template rendering.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	},
	[]string{"template"},
)

// Bool renders a label value for boolean dimensions.
func Bool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
