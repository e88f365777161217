package backend

import "testing"

func TestSessionValid(t *testing.T) {
	if (Session{}).Valid() {
		t.Error("empty session should not be valid")
	}
	if (Session{AccessToken: "tok"}).Valid() {
		t.Error("session without business id should not be valid")
	}
	if !(Session{AccessToken: "tok", BusinessID: "biz"}).Valid() {
		t.Error("full session should be valid")
	}
}

func TestPostMetricsValue(t *testing.T) {
	m := &PostMetrics{Data: []MetricRecord{
		{Name: "likes", Description: "Likes on the post", Values: []MetricValue{{Value: 42}}},
		{Name: "comments", Values: nil},
	}}

	if got := m.Value("likes"); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
	// Record present but without data points reads as zero.
	if got := m.Value("comments"); got != 0 {
		t.Errorf("expected 0 for empty values, got %v", got)
	}
	// Absent record reads as zero, not an error.
	if got := m.Value("plays"); got != 0 {
		t.Errorf("expected 0 for missing metric, got %v", got)
	}
}

func TestPostMetricsDescription(t *testing.T) {
	m := &PostMetrics{Data: []MetricRecord{
		{Name: "likes", Description: "Likes on the post"},
	}}
	if got := m.Description("likes"); got != "Likes on the post" {
		t.Errorf("unexpected description: %q", got)
	}
	if got := m.Description("plays"); got != "" {
		t.Errorf("expected blank description for missing metric, got %q", got)
	}
}

func TestPostMetricsNilReceiver(t *testing.T) {
	var m *PostMetrics
	if got := m.Value("likes"); got != 0 {
		t.Errorf("expected 0 from nil metrics, got %v", got)
	}
	if got := m.Description("likes"); got != "" {
		t.Errorf("expected blank description from nil metrics, got %q", got)
	}
}
