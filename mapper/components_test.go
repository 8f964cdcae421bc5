package mapper

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/negspace/registry"
)

func TestDetect(t *testing.T) {
	reg := registry.Default()

	tests := []struct {
		name string
		text string
		want map[string]int
	}{
		{"empty", "", map[string]int{}},
		{"no signal", "Simple statement with no domain signals.", map[string]int{}},
		{"single weak signal", "We are building an API.", map[string]int{registry.DomainSoftwareDelivery: 1}},
		{
			name: "multiple domains",
			text: "An AI agent deploys to production.",
			want: map[string]int{
				registry.DomainSoftwareDelivery: 2,
				registry.DomainAutonomousAgent:  2,
			},
		},
		{
			name: "distinct triggers counted once",
			text: "API, API, API.",
			want: map[string]int{registry.DomainSoftwareDelivery: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]int{}
			for _, s := range Detect(reg, tt.text) {
				assert.Len(t, s.Matched, s.Strength)
				got[s.Domain] = s.Strength
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_RegistrationOrder(t *testing.T) {
	signals := Detect(registry.Default(), "Patient data flows through the board-approved AI agent API.")

	var domains []string
	for _, s := range signals {
		domains = append(domains, s.Domain)
	}
	assert.Equal(t, []string{
		registry.DomainSoftwareDelivery,
		registry.DomainAutonomousAgent,
		registry.DomainGovernance,
		registry.DomainDataPrivacy,
	}, domains)
}

func TestClassifier_Classify(t *testing.T) {
	reg := registry.Default()
	c := NewClassifier(reg)
	concept := reg.ConceptsFor(registry.DomainSoftwareDelivery)[0]
	sig := Signal{Domain: registry.DomainSoftwareDelivery, Strength: 1, Matched: []string{"api"}}

	tests := []struct {
		name string
		text string
		want AbsenceType
	}{
		{"silence is overlooked", "We are building an API.", Overlooked},
		{"intentionally omitted", "Phase 2 is intentionally omitted. We are building an API.", Deliberate},
		{"phase only", "Phase 1 only. We are building an API.", Deliberate},
		{"covers only", "This plan covers the happy path only. We are building an API.", Deliberate},
		{"out of scope naming domain", "API hardening is out of scope.", Deliberate},
		{"only covers", "This plan only covers the happy path. We are building an API.", Deliberate},
		{"not covered naming domain", "API monitoring is not covered here.", Deliberate},
		{"deferred naming domain", "Deployment hardening is deferred to Q3. We are building an API.", Deliberate},
		{"not covered without domain", "Travel costs are not covered by the grant. We are building an API.", Overlooked},
		{"deferred without domain", "The kickoff meeting was deferred to Friday. We are building an API.", Overlooked},
		{"not addressed without domain", "Parking is not addressed. We are building an API.", Overlooked},
		{"cover only without plan", "We cover hosting only for the first year. We deploy the API.", Overlooked},
		{"cue naming another domain", "The AI agent is out of scope. We are building an API.", Overlooked},
		{"negation without cue", "We are not building a mobile app yet. We are building an API.", Overlooked},
		{"scope word alone", "The scope is an API.", Overlooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ctx := c.Classify(tt.text, concept, sig)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(ctx, `expected for software_delivery statements (signals: "api")`), ctx)
			if got == Deliberate {
				assert.Contains(t, ctx, "scoped out by")
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short sentence", excerpt("short   sentence"))

	long := strings.Repeat("word ", 60)
	got := excerpt(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), excerptMax+3)

	// No space to break on: the cut backs up to a rune boundary.
	unbroken := "a" + strings.Repeat("é", 100)
	got = excerpt(unbroken)
	assert.True(t, utf8.ValidString(got), "%q", got)
	assert.Equal(t, "a"+strings.Repeat("é", 59)+"...", got)
}

func TestScorer_Score(t *testing.T) {
	s := DefaultScorer()

	tests := []struct {
		name     string
		weight   float64
		strength int
		want     float64
	}{
		{"single signal is base weight", 0.7, 1, 0.7},
		{"extra signals boost", 0.7, 3, 0.8},
		{"boost is capped", 0.7, 10, 0.85},
		{"clamped to one", 0.95, 5, 1.0},
		{"zero weight single signal", 0, 1, 0},
		{"full weight", 1, 1, 1},
		{"strength zero treated as one", 0.5, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.weight, tt.strength))
		})
	}
}

func TestScorer_NegativeBoostIgnored(t *testing.T) {
	s := Scorer{StrengthBoost: -0.5, MaxBoost: 1}
	assert.Equal(t, 0.6, s.Score(0.6, 4))
}

func TestCheckText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantFrag string
	}{
		{"descriptive context", `expected for governance statements (signals: "board")`, true, ""},
		{"should implement", "the team should implement retries", false, "should implement"},
		{"recommend", "We recommend adding an owner", false, "We recommend"},
		{"consider adding", "consider adding a review cycle", false, "consider adding"},
		{"fix by", "fix this by adding tests", false, "fix this by"},
		{"you need to", "you need to define an owner", false, "you need to"},
		{"remediation", "remediation steps follow", false, "remediation"},
		{"imperative add", "add a rollback plan", false, "add a"},
		{"quoted excerpt ignored", `scoped out by "we recommend skipping tests"`, true, ""},
		{"escaped quote inside excerpt", `scoped out by "the \"should add\" list is out of scope"`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, ok := CheckText(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFrag, frag)
		})
	}
}

func TestCheckCompliance(t *testing.T) {
	ok, violation := CheckCompliance(nil)
	assert.True(t, ok)
	assert.Empty(t, violation)

	ok, violation = CheckCompliance([]Absence{
		{Name: "testing", Context: "expected for software_delivery statements"},
		{Name: "rollback", Context: "you should add a rollback"},
	})
	assert.False(t, ok)
	assert.Equal(t, `absence "rollback" context contains prescriptive phrasing "should add"`, violation)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	m := New(nil, WithMetrics(metrics))
	m.Map("We are building a system that processes user data and deploys to production.")
	m.Map("Simple statement with no domain signals.")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.mappings))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.activations.WithLabelValues(registry.DomainSoftwareDelivery)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.activations.WithLabelValues(registry.DomainDataPrivacy)))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.absences.WithLabelValues(registry.DomainSoftwareDelivery, string(Overlooked))))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.violations))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}
