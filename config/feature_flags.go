package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles. The review board is small, so
// there is no percentage rollout; a flag is on or off, with per-member
// overrides for debugging.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Override rules (for testing/debugging), keyed by member email.
	memberOverrides map[string]map[string]bool
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	MemberEmail string // Board member email
	IsAdmin     bool   // Is admin user
}

// Predefined feature flag names.
const (
	// === Assistant Features ===
	FeatureAssistantSearch    = "assistant.search"    // Natural-language applicant search
	FeatureAssistantChat      = "assistant.chat"      // Per-applicant chat
	FeatureAssistantSummaries = "assistant.summaries" // AI summaries in the meeting export

	// === Review Features ===
	FeatureReviewVideos = "review.videos" // Show video submissions on profiles

	// === Export Features ===
	FeatureExportOverview = "export.overview" // HTML meeting overview export

	// === Mailer Features ===
	FeatureMailerAdminSend = "mailer.admin_send" // Admin-composed email sending
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:        make(map[string]*Feature),
		memberOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureAssistantSearch] = &Feature{
		Name:        FeatureAssistantSearch,
		Description: "Natural-language search over applicant essays",
		Enabled:     true,
	}

	ff.features[FeatureAssistantChat] = &Feature{
		Name:        FeatureAssistantChat,
		Description: "Chat about a single applicant",
		Enabled:     true,
	}

	ff.features[FeatureAssistantSummaries] = &Feature{
		Name:        FeatureAssistantSummaries,
		Description: "AI applicant summaries in the meeting overview",
		Enabled:     true,
	}

	ff.features[FeatureReviewVideos] = &Feature{
		Name:        FeatureReviewVideos,
		Description: "Show video submissions on applicant profiles",
		Enabled:     true,
	}

	ff.features[FeatureExportOverview] = &Feature{
		Name:        FeatureExportOverview,
		Description: "HTML meeting overview export",
		Enabled:     true,
	}

	ff.features[FeatureMailerAdminSend] = &Feature{
		Name:        FeatureMailerAdminSend,
		Description: "Admin-composed email sending",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_ASSISTANT_SEARCH=false
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "assistant.search" -> "FEATURE_ASSISTANT_SEARCH"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check member overrides first
	if ctx != nil && ctx.MemberEmail != "" {
		if overrides, ok := ff.memberOverrides[ctx.MemberEmail]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	return feature.Enabled
}

// SetMemberOverride sets a feature override for a specific member.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetMemberOverride(email, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.memberOverrides[email]; !ok {
		ff.memberOverrides[email] = make(map[string]bool)
	}
	ff.memberOverrides[email][featureName] = enabled
}

// ClearMemberOverrides removes all overrides for a member.
func (ff *FeatureFlags) ClearMemberOverrides(email string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.memberOverrides, email)
}

// EnableFeature enables a feature.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.setEnabled(featureName, true)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.setEnabled(featureName, false)
}

func (ff *FeatureFlags) setEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// AssistantEnabled checks if any assistant feature is enabled.
func (ff *FeatureFlags) AssistantEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureAssistantSearch, ctx) ||
		ff.IsEnabled(FeatureAssistantChat, ctx) ||
		ff.IsEnabled(FeatureAssistantSummaries, ctx)
}

// --- Errors ---

// ErrFeatureNotFound is returned for unknown feature names.
var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
