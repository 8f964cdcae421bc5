package registry

// Domain identifiers of the built-in tables.
const (
	DomainSoftwareDelivery = "software_delivery"
	DomainAutonomousAgent  = "autonomous_agent"
	DomainGovernance       = "governance"
	DomainNonprofit        = "nonprofit"
	DomainDataPrivacy      = "data_privacy"
)

// DefaultVersion labels the built-in tables.
const DefaultVersion = "1"

// DefaultScopeCues returns the built-in explicit scoping patterns. A sentence
// matching one of them scopes out the domains it names, or every domain when
// it names none ("Phase 2 is intentionally omitted.").
func DefaultScopeCues() []string {
	return []string{
		`\b(?:intentionally|deliberately|purposely)\s+(?:omitted|excluded|left\s+out|deferred)\b`,
		`\bout\s+of\s+scope\b`,
		`\bnot\s+in\s+scope\b`,
		`\bexcluded\s+from\s+(?:the\s+)?scope\b`,
		`\bphase\s+\d+\s+only\b`,
		`\b(?:this|the)\s+(?:document|plan|proposal|statement|project|release|phase)\s+(?:covers\b[^.!?]*\bonly|only\s+covers)\b`,
	}
}

// DefaultExclusionCues returns the built-in generic exclusion patterns. They
// are ordinary phrasing ("not covered by the grant"), so a sentence matching
// one only scopes out the domains whose triggers it contains.
func DefaultExclusionCues() []string {
	return []string{
		`\bnot\s+covered\b`,
		`\bnot\s+addressed\b`,
		`\bdeferred\s+to\b`,
	}
}

// DefaultSpec returns the built-in domain tables. Each call returns a fresh
// value.
//
// Domain order is the order absences are reported in. Concept order within a
// domain is reporting order too.
func DefaultSpec() Spec {
	return Spec{
		Version:       DefaultVersion,
		ScopeCues:     DefaultScopeCues(),
		ExclusionCues: DefaultExclusionCues(),
		Domains: []DomainSpec{
			{
				ID: DomainSoftwareDelivery,
				Triggers: []string{
					"api", "apis", "endpoint", "backend", "frontend", "microservice",
					"deploy", "deployment", "production", "release", "software",
					"system", "application", "app", "apps", "codebase", "database",
					"authentication", "saas",
				},
				Concepts: []ConceptSpec{
					{Name: "error_handling", Weight: 0.7, Phrases: []string{
						"error", "exception", "failure", "fault", "retry", "fallback",
						"graceful degradation",
					}},
					{Name: "testing", Weight: 0.6, Phrases: []string{
						"test", "qa", "quality assurance", "verification", "validate",
					}},
					{Name: "monitoring", Weight: 0.6, Phrases: []string{
						"monitor", "monitoring", "observability", "alert", "logging",
						"metric", "dashboard", "telemetry",
					}},
					{Name: "rollback", Weight: 0.5, Phrases: []string{
						"rollback", "roll back", "rolled back", "revert", "canary",
						"blue-green",
					}},
					{Name: "security", Weight: 0.6, Phrases: []string{
						"security", "secure", "authentication", "authorization",
						"encrypt", "encryption", "access control", "threat model",
						"vulnerability",
					}},
				},
			},
			{
				ID: DomainAutonomousAgent,
				Triggers: []string{
					"agent", "agentic", "ai", "autonomous", "llm", "chatbot",
					"assistant", "bot", "bots", "machine learning",
				},
				Concepts: []ConceptSpec{
					{Name: "human_override", Weight: 0.8, Phrases: []string{
						"human override", "override", "human-in-the-loop",
						"human in the loop", "kill switch", "manual approval",
						"human approval", "human review", "intervene", "intervention",
						"escalate", "escalation", "shut down", "shutdown",
					}},
					{Name: "scope_boundary", Weight: 0.8, Phrases: []string{
						"scope", "boundary", "limit", "restrict",
						"restriction", "permission", "allowlist", "whitelist",
						"sandbox", "least privilege", "guardrail",
					}},
					{Name: "audit_trail", Weight: 0.6, Phrases: []string{
						"audit", "audit trail", "log", "logs", "logged", "logging",
						"trace", "traceability",
					}},
					{Name: "failure_mode", Weight: 0.6, Phrases: []string{
						"fail", "failure", "error", "fallback", "malfunction",
						"unexpected behavior",
					}},
					{Name: "user_consent", Weight: 0.5, Phrases: []string{
						"consent", "opt-in", "opt in", "confirm", "confirmation",
						"authorize",
					}},
				},
			},
			{
				ID: DomainGovernance,
				Triggers: []string{
					"board", "governance", "compliance", "policy",
					"regulation", "regulatory", "bylaws", "charter", "committee",
				},
				Concepts: []ConceptSpec{
					{Name: "accountability", Weight: 0.7, Phrases: []string{
						"accountable", "accountability", "responsible",
						"responsibility", "owner", "ownership", "raci", "answerable",
					}},
					{Name: "review_cycle", Weight: 0.6, Phrases: []string{
						"review", "annual", "annually", "quarterly", "periodic",
						"revisit", "sunset", "renewal",
					}},
					{Name: "enforcement", Weight: 0.6, Phrases: []string{
						"enforce", "enforcement", "enforcing", "sanction", "penalty",
						"consequence", "violation",
					}},
					{Name: "stakeholder_input", Weight: 0.5, Phrases: []string{
						"stakeholder", "consultation", "consult", "feedback",
						"public comment", "engagement",
					}},
				},
			},
			{
				ID: DomainNonprofit,
				Triggers: []string{
					"nonprofit", "non-profit", "not-for-profit", "charity",
					"charitable", "volunteer", "donor", "donation", "fundraising",
					"fundraiser", "mission", "community", "philanthropy",
					"501(c)(3)",
				},
				Concepts: []ConceptSpec{
					{Name: "succession", Weight: 0.7, Phrases: []string{
						"succession", "successor", "leadership transition",
						"continuity plan", "key person",
					}},
					{Name: "financial_controls", Weight: 0.7, Phrases: []string{
						"financial control", "internal control", "audit", "budget",
						"treasurer", "accounting", "segregation of duties",
						"financial oversight",
					}},
					{Name: "board_oversight", Weight: 0.6, Phrases: []string{
						"board", "trustee", "directors", "oversight", "governing body",
					}},
					{Name: "impact_measurement", Weight: 0.5, Phrases: []string{
						"impact", "outcome", "metric", "evaluation", "evaluate",
						"measure", "kpi",
					}},
					{Name: "conflict_of_interest", Weight: 0.5, Phrases: []string{
						"conflict of interest", "conflicts of interest", "recusal",
						"disclosure",
					}},
				},
			},
			{
				ID: DomainDataPrivacy,
				Triggers: []string{
					"user data", "personal data", "personal information",
					"customer data", "health data", "sensitive data", "patient",
					"healthcare", "medical", "pii", "gdpr", "hipaa",
				},
				Concepts: []ConceptSpec{
					{Name: "consent", Weight: 0.7, Phrases: []string{
						"consent", "opt-in", "opt in", "opt-out", "opt out",
					}},
					{Name: "data_retention", Weight: 0.6, Phrases: []string{
						"retention", "retain", "delete", "deletion", "purge", "expire",
						"expiry",
					}},
					{Name: "access_control", Weight: 0.6, Phrases: []string{
						"access control", "role-based", "rbac", "least privilege",
						"authorization", "authorized personnel",
					}},
					{Name: "audit_trail", Weight: 0.5, Phrases: []string{
						"audit", "audit trail", "access log", "logs", "logging",
					}},
					{Name: "breach_response", Weight: 0.6, Phrases: []string{
						"breach", "incident response", "incident", "breach notification",
					}},
				},
			},
		},
	}
}

var defaultRegistry = MustNew(DefaultSpec())

// Default returns the shared registry compiled from DefaultSpec.
func Default() *Registry {
	return defaultRegistry
}
