package validation

import (
	"fmt"
	"regexp"

	"github.com/rendis/interact/pkg/schema"
)

// validateBase performs the semantic checks shared by every element type:
// identity presence, lead-capture rules, and follow-up action rules.
func validateBase(cfg *schema.ElementConfig) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	if cfg.ID == "" {
		result.AddError("id", schema.ErrCodeValidation, "element id is required")
	}
	if cfg.Title == "" {
		result.AddError("title", schema.ErrCodeValidation, "element title is required")
	}
	if cfg.WebsiteID == "" {
		result.AddError("website_id", schema.ErrCodeValidation, "website id is required")
	}

	if cfg.LeadCapture != nil && cfg.LeadCapture.Enabled {
		validateLeadCapture(cfg.LeadCapture, result)
	}

	if cfg.FollowUp != nil {
		validateFollowUp(cfg.FollowUp, result)
	}

	return result
}

// validateLeadCapture checks the lead-capture declaration. A capture block
// with no contact-capable field still validates, but gets a warning: the
// whole point of the step is reaching the visitor afterwards.
func validateLeadCapture(lc *schema.LeadCaptureConfig, result *schema.ValidationResult) {
	if len(lc.Fields) == 0 {
		result.AddError("lead_capture.fields", schema.ErrCodeValidation,
			"lead capture is enabled but declares no fields")
		return
	}

	hasContact := false
	for i, f := range lc.Fields {
		path := fmt.Sprintf("lead_capture.fields[%d]", i)
		if f.ID == "" {
			result.AddError(path+".id", schema.ErrCodeValidation, "lead field id is required")
		}
		if f.Label == "" {
			result.AddError(path+".label", schema.ErrCodeValidation, "lead field label is required")
		}
		if f.Type == schema.LeadFieldEmail || f.Type == schema.LeadFieldPhone {
			hasContact = true
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				// Invalid custom patterns are tolerated at runtime; flag here.
				result.AddWarning(path+".pattern", schema.ErrCodeValidation,
					fmt.Sprintf("custom pattern does not compile and will be ignored: %s", err))
			}
		}
	}

	if !hasContact {
		result.AddWarning("lead_capture.fields", schema.ErrCodeValidation,
			"no email or phone field declared; captured leads cannot be contacted")
	}
}

// validateFollowUp checks that destination-bearing follow-up actions declare one.
func validateFollowUp(fu *schema.FollowUpAction, result *schema.ValidationResult) {
	switch fu.Type {
	case schema.FollowUpRedirect, schema.FollowUpDownload:
		if fu.URL == "" {
			result.AddError("follow_up.url", schema.ErrCodeValidation,
				fmt.Sprintf("%s follow-up requires a destination url", fu.Type))
		}
	}
}
