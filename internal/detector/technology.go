// Package detector fingerprints the technologies a page is built with.
package detector

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Pre-compiled regex patterns, matched against asset URLs and inline scripts
var (
	techPatterns     map[string]*regexp.Regexp
	techPatternsOnce sync.Once
)

func initTechPatterns() {
	techPatterns = make(map[string]*regexp.Regexp)

	patterns := map[string]string{
		"WordPress":          `wp-content|wp-includes|/wp-json/`,
		"Joomla":             `(?i)/media/jui/|joomla`,
		"Drupal":             `(?i)drupal|sites/all/|sites/default/files`,
		"Magento":            `Mage\.Cookies|/static/version\d+/frontend/`,
		"Shopify":            `cdn\.shopify\.com|Shopify\.theme`,
		"WooCommerce":        `(?i)woocommerce`,
		"jQuery":             `(?i)jquery[.-]`,
		"React":              `react(-dom)?(\.production)?(\.min)?\.js|_reactRootContainer`,
		"Next.js":            `/_next/static/|__NEXT_DATA__`,
		"Nuxt.js":            `/_nuxt/|window\.__NUXT__`,
		"Vue.js":             `vue(\.runtime)?(\.global)?(\.prod)?(\.min)?\.js|__vue__`,
		"Angular":            `angular(\.min)?\.js|zone\.js`,
		"Svelte":             `svelte-[a-z0-9]{6}`,
		"Gatsby":             `/page-data/|___gatsby`,
		"Bootstrap":          `bootstrap(\.bundle)?(\.min)?\.(js|css)`,
		"Tailwind CSS":       `tailwindcss|tailwind(\.min)?\.css`,
		"Font Awesome":       `font-awesome|fontawesome`,
		"Google Analytics":   `google-analytics\.com|gtag/js|\bga\('create'`,
		"Google Tag Manager": `googletagmanager\.com`,
		"Cloudflare":         `cdnjs\.cloudflare\.com|/cdn-cgi/`,
		"ASP.NET":            `__VIEWSTATE|__EVENTTARGET|WebResource\.axd`,
		"Google Fonts":       `fonts\.googleapis\.com`,
		"Google Maps":        `maps\.google\.com|maps\.googleapis\.com`,
		"Google reCAPTCHA":   `recaptcha`,
		"Modernizr":          `(?i)modernizr`,
		"Moment.js":          `moment(\.min)?\.js`,
		"Lodash":             `lodash(\.min)?\.js`,
		"Axios":              `axios(\.min)?\.js`,
		"Chart.js":           `(?i)chart(\.umd)?(\.min)?\.js`,
		"D3.js":              `d3(\.v\d)?(\.min)?\.js`,
		"Leaflet":            `leaflet(\.min)?\.(js|css)`,
		"Stripe":             `js\.stripe\.com|Stripe\.setPublishableKey`,
		"PayPal":             `paypal\.com/sdk|paypalobjects\.com`,
		"Hotjar":             `hotjar\.com|hjSetting`,
		"Intercom":           `intercom\.io|intercomSettings`,
		"Drift":              `js\.driftt\.com|drift\.com/`,
	}

	for tech, pattern := range patterns {
		techPatterns[tech] = regexp.MustCompile(pattern)
	}
}

// domMarkers are selectors whose presence alone identifies a technology
var domMarkers = map[string]string{
	"React":        `[data-reactroot], [data-reactid]`,
	"Next.js":      `#__next, script#__NEXT_DATA__`,
	"Nuxt.js":      `#__nuxt, #__layout`,
	"Vue.js":       `[data-v-app], [data-server-rendered]`,
	"Angular":      `[ng-version], [ng-app], [ng-controller]`,
	"Gatsby":       `#___gatsby`,
	"Svelte":       `[class*="svelte-"]`,
	"Shopify":      `link[href*="cdn.shopify.com"]`,
	"Tailwind CSS": `link[href*="tailwind"]`,
}

// generators maps meta generator keywords to technologies
var generators = map[string]string{
	"wordpress":   "WordPress",
	"joomla":      "Joomla",
	"drupal":      "Drupal",
	"wix":         "Wix",
	"squarespace": "Squarespace",
	"hugo":        "Hugo",
	"ghost":       "Ghost",
	"gatsby":      "Gatsby",
	"next.js":     "Next.js",
	"nuxt":        "Nuxt.js",
	"webflow":     "Webflow",
	"shopify":     "Shopify",
	"typo3":       "TYPO3",
}

var serverTechs = map[string]string{
	"Apache":     "apache",
	"Nginx":      "nginx",
	"IIS":        "microsoft-iis",
	"Cloudflare": "cloudflare",
	"LiteSpeed":  "litespeed",
	"Vercel":     "vercel",
	"Netlify":    "netlify",
}

var poweredTechs = map[string]string{
	"PHP":        "php",
	"ASP.NET":    "asp.net",
	"Express.js": "express",
	"Next.js":    "next.js",
}

// Detect identifies technologies from the rendered markup and the document
// response headers. The result is sorted and free of duplicates.
func Detect(html string, headers map[string][]string) []string {
	techPatternsOnce.Do(initTechPatterns)

	seen := make(map[string]bool)

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		detectFromDocument(doc, seen)
	} else {
		matchPatterns(html, seen)
	}

	detectFromHeaders(headers, seen)

	technologies := make([]string, 0, len(seen))
	for tech := range seen {
		technologies = append(technologies, tech)
	}
	sort.Strings(technologies)
	return technologies
}

func detectFromDocument(doc *goquery.Document, seen map[string]bool) {
	for tech, selector := range domMarkers {
		if doc.Find(selector).Length() > 0 {
			seen[tech] = true
		}
	}

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		if !strings.EqualFold(s.AttrOr("name", ""), "generator") {
			return
		}
		content := strings.ToLower(s.AttrOr("content", ""))
		for keyword, tech := range generators {
			if strings.Contains(content, keyword) {
				seen[tech] = true
			}
		}
	})

	// Asset URLs and inline scripts carry most of the fingerprints
	doc.Find("script[src], link[href], img[src], iframe[src]").Each(func(_ int, s *goquery.Selection) {
		ref := s.AttrOr("src", "")
		if ref == "" {
			ref = s.AttrOr("href", "")
		}
		matchPatterns(ref, seen)
	})
	doc.Find("script:not([src]), form input[type=hidden]").Each(func(_ int, s *goquery.Selection) {
		matchPatterns(s.Text(), seen)
		if name, ok := s.Attr("name"); ok {
			matchPatterns(name, seen)
		}
	})
}

func matchPatterns(content string, seen map[string]bool) {
	if content == "" {
		return
	}
	for tech, pattern := range techPatterns {
		if !seen[tech] && pattern.MatchString(content) {
			seen[tech] = true
		}
	}
}

func detectFromHeaders(headers map[string][]string, seen map[string]bool) {
	if server := headerValue(headers, "Server"); server != "" {
		for tech, keyword := range serverTechs {
			if strings.Contains(server, keyword) {
				seen[tech] = true
			}
		}
	}

	if powered := headerValue(headers, "X-Powered-By"); powered != "" {
		for tech, keyword := range poweredTechs {
			if strings.Contains(powered, keyword) {
				seen[tech] = true
			}
		}
	}

	if headerValue(headers, "Cf-Ray") != "" {
		seen["Cloudflare"] = true
	}
	if headerValue(headers, "X-Shopify-Stage") != "" {
		seen["Shopify"] = true
	}
}

// headerValue returns the lowercased first value of a header, matching the
// name case-insensitively
func headerValue(headers map[string][]string, name string) string {
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return strings.ToLower(values[0])
		}
	}
	return ""
}

// GetTechnologyCategories categorizes detected technologies
func GetTechnologyCategories(technologies []string) map[string][]string {
	categories := map[string][]string{
		"CMS":           {},
		"JavaScript":    {},
		"CSS Framework": {},
		"Server":        {},
		"Hosting":       {},
		"Analytics":     {},
		"Payment":       {},
		"Security":      {},
		"Framework":     {},
		"Programming":   {},
		"Miscellaneous": {},
	}

	techCategories := map[string]string{
		"WordPress":          "CMS",
		"Joomla":             "CMS",
		"Drupal":             "CMS",
		"Magento":            "CMS",
		"Shopify":            "CMS",
		"WooCommerce":        "CMS",
		"Wix":                "CMS",
		"Squarespace":        "CMS",
		"Ghost":              "CMS",
		"Webflow":            "CMS",
		"TYPO3":              "CMS",
		"jQuery":             "JavaScript",
		"React":              "JavaScript",
		"Vue.js":             "JavaScript",
		"Angular":            "JavaScript",
		"Svelte":             "JavaScript",
		"Modernizr":          "JavaScript",
		"Moment.js":          "JavaScript",
		"Lodash":             "JavaScript",
		"Axios":              "JavaScript",
		"Chart.js":           "JavaScript",
		"D3.js":              "JavaScript",
		"Leaflet":            "JavaScript",
		"Bootstrap":          "CSS Framework",
		"Tailwind CSS":       "CSS Framework",
		"Font Awesome":       "CSS Framework",
		"Apache":             "Server",
		"Nginx":              "Server",
		"IIS":                "Server",
		"LiteSpeed":          "Server",
		"Cloudflare":         "Hosting",
		"Vercel":             "Hosting",
		"Netlify":            "Hosting",
		"Google Analytics":   "Analytics",
		"Google Tag Manager": "Analytics",
		"Hotjar":             "Analytics",
		"Intercom":           "Analytics",
		"Drift":              "Analytics",
		"Stripe":             "Payment",
		"PayPal":             "Payment",
		"Google reCAPTCHA":   "Security",
		"Next.js":            "Framework",
		"Nuxt.js":            "Framework",
		"Gatsby":             "Framework",
		"Hugo":               "Framework",
		"Express.js":         "Framework",
		"ASP.NET":            "Framework",
		"PHP":                "Programming",
	}

	for _, tech := range technologies {
		category, exists := techCategories[tech]
		if !exists {
			category = "Miscellaneous"
		}
		categories[category] = append(categories[category], tech)
	}

	return categories
}
