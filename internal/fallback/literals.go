package fallback

import "github.com/Sla0ui/uxlens/internal/models"

func strengths() []string {
	return []string{
		"Clean and modern design aesthetic",
		"Good use of white space and typography",
		"Responsive design works well on mobile devices",
		"Clear navigation structure",
		"Fast loading times",
	}
}

func improvements() []string {
	return []string{
		"Call-to-action buttons could be more prominent",
		"Color contrast could be improved for better accessibility",
		"Some pages lack clear user guidance",
		"Contact information could be more accessible",
		"Loading states could provide better user feedback",
	}
}

func recommendations() []string {
	return []string{
		"Implement A/B testing for key conversion elements",
		"Add more interactive elements to increase engagement",
		"Consider adding a chatbot for immediate user support",
		"Optimize images for faster loading",
		"Add breadcrumb navigation for better user orientation",
	}
}

func at(element, page string) *models.Location {
	return &models.Location{Element: element, Page: page}
}

// sampleIssues returns fresh illustrative findings, two per section
func sampleIssues() map[models.Category][]models.Issue {
	return map[models.Category][]models.Issue{
		models.CategoryAccessibility: {
			{
				ID:             "accessibility-contrast-1",
				Title:          "Low contrast text in navigation menu",
				Description:    "White text (#FFFFFF) on light gray background (#F0F0F0) has insufficient contrast ratio of 2.1:1",
				Severity:       models.SeverityHigh,
				Category:       models.CategoryAccessibility,
				Location:       at("navigation menu", "homepage"),
				Impact:         "Users with visual impairments cannot read the navigation text",
				Recommendation: "Change background color to darker gray (#666666) for 4.5:1 contrast ratio",
			},
			{
				ID:             "accessibility-alt-1",
				Title:          "Missing alt text on hero image",
				Description:    "Hero banner image 'hero-banner.jpg' lacks descriptive alt text",
				Severity:       models.SeverityMedium,
				Category:       models.CategoryAccessibility,
				Location:       at("hero image", "homepage"),
				Impact:         "Screen reader users cannot understand the image content",
				Recommendation: `Add descriptive alt text: 'alt="Company team working together in modern office"'`,
			},
		},
		models.CategoryPerformance: {
			{
				ID:             "performance-images-1",
				Title:          "Large unoptimized hero image",
				Description:    "Hero image 'hero-banner.jpg' is 2.3MB and not optimized for web",
				Severity:       models.SeverityMedium,
				Category:       models.CategoryPerformance,
				Location:       at("hero image", "homepage"),
				Impact:         "Slow page load times, especially on mobile devices",
				Recommendation: "Compress image to under 200KB and use WebP format",
			},
			{
				ID:             "performance-css-1",
				Title:          "Unoptimized CSS delivery",
				Description:    "CSS is loaded synchronously and blocks rendering",
				Severity:       models.SeverityLow,
				Category:       models.CategoryPerformance,
				Location:       at("stylesheet", "all"),
				Impact:         "Delays visual rendering of the page",
				Recommendation: "Use critical CSS inlining and async loading for non-critical styles",
			},
		},
		models.CategoryUsability: {
			{
				ID:             "usability-nav-1",
				Title:          "Complex navigation structure",
				Description:    "Navigation has 3 levels deep with unclear hierarchy",
				Severity:       models.SeverityMedium,
				Category:       models.CategoryUsability,
				Location:       at("main navigation", "all"),
				Impact:         "Users struggle to find desired content quickly",
				Recommendation: "Simplify to 2 levels maximum and add breadcrumbs",
			},
			{
				ID:             "usability-flow-1",
				Title:          "Unclear user flow on homepage",
				Description:    "No clear call-to-action or next steps for visitors",
				Severity:       models.SeverityHigh,
				Category:       models.CategoryUsability,
				Location:       at("homepage content", "homepage"),
				Impact:         "High bounce rate as users don't know what to do next",
				Recommendation: "Add prominent CTA button and clear value proposition",
			},
		},
		models.CategoryDesign: {
			{
				ID:             "design-spacing-1",
				Title:          "Inconsistent spacing between sections",
				Description:    "Sections have varying margins (20px, 40px, 30px) instead of consistent spacing",
				Severity:       models.SeverityLow,
				Category:       models.CategoryDesign,
				Location:       at("page sections", "all"),
				Impact:         "Visual inconsistency creates poor user experience",
				Recommendation: "Use consistent 32px spacing between all sections",
			},
			{
				ID:             "design-mobile-1",
				Title:          "Poor mobile layout for contact form",
				Description:    "Contact form fields are too small (height: 32px) on mobile devices",
				Severity:       models.SeverityMedium,
				Category:       models.CategoryDesign,
				Location:       at("contact form", "contact"),
				Impact:         "Difficult to tap and interact with form elements",
				Recommendation: "Increase form field height to 44px minimum for mobile",
			},
		},
	}
}
