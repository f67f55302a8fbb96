package detector

import (
	"sort"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		headers         map[string][]string
		expectedTechs   []string
		unexpectedTechs []string
	}{
		{
			name:          "WordPress detection",
			content:       `<script src="/wp-content/themes/mytheme/script.js"></script>`,
			headers:       map[string][]string{},
			expectedTechs: []string{"WordPress"},
		},
		{
			name:          "Generator meta tag",
			content:       `<html><head><meta name="Generator" content="Hugo 0.120.4"></head></html>`,
			expectedTechs: []string{"Hugo"},
		},
		{
			name:          "jQuery detection",
			content:       `<script src="https://code.jquery.com/jquery-3.6.0.min.js"></script>`,
			headers:       map[string][]string{},
			expectedTechs: []string{"jQuery"},
		},
		{
			name:          "Multiple technologies",
			content:       `<script src="jquery.min.js"></script><script src="bootstrap.min.js"></script>`,
			headers:       map[string][]string{},
			expectedTechs: []string{"jQuery", "Bootstrap"},
		},
		{
			name:          "Next.js markers",
			content:       `<body><div id="__next"></div><script src="/_next/static/chunks/main.js"></script></body>`,
			expectedTechs: []string{"Next.js"},
		},
		{
			name:          "React root attribute",
			content:       `<div data-reactroot=""><p>hi</p></div>`,
			expectedTechs: []string{"React"},
		},
		{
			name:          "Angular version attribute",
			content:       `<app-root ng-version="17.0.1"></app-root>`,
			expectedTechs: []string{"Angular"},
		},
		{
			name:    "Server from headers",
			content: "",
			headers: map[string][]string{
				"Server": {"nginx/1.18.0"},
			},
			expectedTechs: []string{"Nginx"},
		},
		{
			name:    "X-Powered-By header",
			content: "",
			headers: map[string][]string{
				"x-powered-by": {"PHP/7.4.3"},
			},
			expectedTechs: []string{"PHP"},
		},
		{
			name:            "No technologies",
			content:         `<html><body>Plain HTML about reacting to the angular gallery</body></html>`,
			headers:         map[string][]string{},
			unexpectedTechs: []string{"WordPress", "jQuery", "React", "Angular"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			technologies := Detect(tt.content, tt.headers)

			if !sort.StringsAreSorted(technologies) {
				t.Errorf("Expected sorted output, got %v", technologies)
			}

			// Check expected technologies are present
			for _, expected := range tt.expectedTechs {
				found := false
				for _, tech := range technologies {
					if tech == expected {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Expected technology %s not found in %v", expected, technologies)
				}
			}

			// Check unexpected technologies are not present
			for _, unexpected := range tt.unexpectedTechs {
				for _, tech := range technologies {
					if tech == unexpected {
						t.Errorf("Unexpected technology %s found in %v", unexpected, technologies)
					}
				}
			}
		})
	}
}

func TestDetectNoDuplicates(t *testing.T) {
	content := `<div id="__next"></div><script id="__NEXT_DATA__"></script><script src="/_next/static/a.js"></script>`
	technologies := Detect(content, map[string][]string{"X-Powered-By": {"Next.js"}})

	count := 0
	for _, tech := range technologies {
		if tech == "Next.js" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected Next.js exactly once, got %v", technologies)
	}
}

func TestGetTechnologyCategories(t *testing.T) {
	technologies := []string{"WordPress", "jQuery", "Nginx", "Google Analytics", "Vercel", "Unknown Thing"}

	categories := GetTechnologyCategories(technologies)

	// Check CMS category
	if len(categories["CMS"]) != 1 || categories["CMS"][0] != "WordPress" {
		t.Errorf("Expected WordPress in CMS category, got %v", categories["CMS"])
	}

	// Check JavaScript category
	if len(categories["JavaScript"]) != 1 || categories["JavaScript"][0] != "jQuery" {
		t.Errorf("Expected jQuery in JavaScript category, got %v", categories["JavaScript"])
	}

	// Check Server category
	if len(categories["Server"]) != 1 || categories["Server"][0] != "Nginx" {
		t.Errorf("Expected Nginx in Server category, got %v", categories["Server"])
	}

	if len(categories["Hosting"]) != 1 || categories["Hosting"][0] != "Vercel" {
		t.Errorf("Expected Vercel in Hosting category, got %v", categories["Hosting"])
	}

	// Check Analytics category
	if len(categories["Analytics"]) != 1 || categories["Analytics"][0] != "Google Analytics" {
		t.Errorf("Expected Google Analytics in Analytics category, got %v", categories["Analytics"])
	}

	if len(categories["Miscellaneous"]) != 1 {
		t.Errorf("Expected one Miscellaneous entry, got %v", categories["Miscellaneous"])
	}
}
