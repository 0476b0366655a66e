// internal/app/provision/options.go
package provision

import (
	"context"
	"fmt"

	optionstore "github.com/dalemusser/stratacms/internal/app/store/options"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"go.uber.org/zap"
)

// OptionDefaulter populates the flat theme options store. Defaults fill
// missing keys only: a key already holding a non-empty value is never
// overwritten, so operator edits survive re-provisioning.
type OptionDefaulter struct {
	options *optionstore.Store
	log     *runlog.Logger
	logger  *zap.Logger
}

// NewOptionDefaulter creates an option defaulter.
func NewOptionDefaulter(options *optionstore.Store, log *runlog.Logger, logger *zap.Logger) *OptionDefaulter {
	return &OptionDefaulter{options: options, log: log, logger: logger}
}

// ApplyDefaults writes the built-in option defaults plus the
// site-settings-derived keys from the document. Returns the number of
// keys that were actually filled.
func (o *OptionDefaulter) ApplyDefaults(ctx context.Context, doc *schema.Document) (int, error) {
	defaults := DefaultThemeOptions()
	for k, v := range siteSettingsOptions(doc.SiteSettings) {
		defaults[k] = v
	}

	filled := 0
	for key, value := range defaults {
		applied, err := o.options.SetDefault(ctx, optionstore.ThemePrefix+key, value)
		if err != nil {
			return filled, fmt.Errorf("default option %q: %w", key, err)
		}
		if applied {
			filled++
		}
	}

	o.log.Appendf("theme options: %d defaults filled, %d already set", filled, len(defaults)-filled)
	o.logger.Info("applied theme option defaults",
		zap.Int("filled", filled),
		zap.Int("total", len(defaults)))
	return filled, nil
}

// siteSettingsOptions flattens the document's site settings into option
// keys. Empty values are dropped so they cannot shadow the built-in
// defaults.
func siteSettingsOptions(s schema.SiteSettings) map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("site_title", s.SiteName)
	set("site_tagline", s.Tagline)
	set("site_url", s.URL)
	set("contact_email", s.ContactEmail)
	set("logo", s.Logo)
	set("favicon", s.Favicon)
	for network, url := range s.SocialLinks {
		set("social_"+network, url)
	}
	return out
}

// DefaultThemeOptions returns the full built-in defaults for the flat
// theme options store. Keys are stored under the theme options prefix;
// every key is independently defaulted with fill-missing semantics.
func DefaultThemeOptions() map[string]string {
	return map[string]string{
		// Site identity
		"logo":                "",
		"logo_dark":           "",
		"logo_mobile":         "",
		"favicon":             "",
		"site_title":          "",
		"site_tagline":        "",
		"site_description":    "",
		"brand_color_primary": "#1a1a2e",
		"brand_color_accent":  "#e94560",
		"brand_color_text":    "#16213e",
		"brand_font_heading":  "inherit",
		"brand_font_body":     "inherit",

		// Header
		"header_layout":          "default",
		"header_sticky":          "1",
		"header_transparent":     "0",
		"header_search_enabled":  "1",
		"header_cta_label":       "",
		"header_cta_url":         "",
		"header_phone":           "",
		"header_email":           "",
		"header_announcement":    "",
		"header_announcement_on": "0",

		// Footer
		"footer_layout":           "columns",
		"footer_columns":          "4",
		"footer_about_title":      "About",
		"footer_about_text":       "",
		"footer_copyright":        "",
		"footer_credits_on":       "1",
		"footer_logo":             "",
		"footer_contact_title":    "Contact",
		"footer_newsletter_on":    "0",
		"footer_newsletter_title": "Newsletter",
		"footer_newsletter_text":  "Subscribe for updates.",

		// Social profiles
		"social_facebook":  "",
		"social_twitter":   "",
		"social_instagram": "",
		"social_linkedin":  "",
		"social_youtube":   "",
		"social_tiktok":    "",
		"social_pinterest": "",
		"social_github":    "",

		// Contact details
		"contact_phone":        "",
		"contact_phone_alt":    "",
		"contact_email":        "",
		"contact_address_1":    "",
		"contact_address_2":    "",
		"contact_city":         "",
		"contact_state":        "",
		"contact_postcode":     "",
		"contact_country":      "",
		"contact_map_embed":    "",
		"contact_hours_mon":    "",
		"contact_hours_tue":    "",
		"contact_hours_wed":    "",
		"contact_hours_thu":    "",
		"contact_hours_fri":    "",
		"contact_hours_sat":    "",
		"contact_hours_sun":    "",
		"contact_form_to":      "",
		"contact_form_subject": "Website enquiry",
		"contact_form_success": "Thanks, we'll be in touch.",

		// Home page sections
		"home_hero_title":         "",
		"home_hero_subtitle":      "",
		"home_hero_image":         "",
		"home_hero_cta_label":     "",
		"home_hero_cta_url":       "",
		"home_hero_overlay":       "0.4",
		"home_intro_title":        "",
		"home_intro_text":         "",
		"home_features_title":     "",
		"home_features_on":        "1",
		"home_testimonials_on":    "1",
		"home_testimonials_title": "What people say",
		"home_cta_title":          "",
		"home_cta_text":           "",
		"home_cta_label":          "",
		"home_cta_url":            "",
		"home_latest_posts_on":    "1",
		"home_latest_posts_title": "Latest news",
		"home_latest_posts_count": "3",

		// Blog / archive
		"blog_layout":              "grid",
		"blog_sidebar":             "right",
		"blog_excerpt_length":      "40",
		"blog_read_more_label":     "Read more",
		"blog_show_author":         "1",
		"blog_show_date":           "1",
		"blog_show_categories":     "1",
		"blog_related_posts_on":    "1",
		"blog_related_posts_count": "3",
		"archive_title_prefix":     "",

		// SEO
		"seo_title_separator":  "|",
		"seo_meta_description": "",
		"seo_og_image":         "",
		"seo_twitter_handle":   "",
		"seo_noindex":          "0",
		"seo_schema_org_type":  "Organization",

		// Analytics and scripts
		"analytics_ga_id":       "",
		"analytics_gtm_id":      "",
		"analytics_head_script": "",
		"analytics_body_script": "",

		// Cookie consent
		"cookie_notice_on":         "1",
		"cookie_notice_text":       "This site uses cookies to improve your experience.",
		"cookie_button_accept_all": "Accept All",
		"cookie_button_reject":     "Reject",
		"cookie_button_settings":   "Cookie Settings",
		"cookie_policy_url":        "",

		// Performance / display
		"lazy_load_images":   "1",
		"image_quality":      "85",
		"excerpt_more":       "…",
		"pagination_style":   "numbered",
		"back_to_top_on":     "1",
		"breadcrumbs_on":     "1",
		"breadcrumbs_home":   "Home",
		"search_placeholder": "Search…",
		"not_found_title":    "Page not found",
		"not_found_text":     "The page you are looking for does not exist.",

		// Maintenance
		"maintenance_mode":    "0",
		"maintenance_title":   "Down for maintenance",
		"maintenance_message": "We'll be back shortly.",

		// Forms
		"form_required_label": "required",
		"form_submit_label":   "Send",
		"form_error_message":  "Something went wrong, please try again.",

		// Misc labels
		"label_posted_on":  "Posted on",
		"label_posted_by":  "by",
		"label_categories": "Categories",
		"label_tags":       "Tags",
		"label_share":      "Share",
		"label_previous":   "Previous",
		"label_next":       "Next",
		"label_view_all":   "View all",
		"label_loading":    "Loading…",
		"label_no_results": "No results found",
	}
}
