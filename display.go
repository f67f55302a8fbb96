package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sla0ui/uxlens/internal/detector"
	"github.com/Sla0ui/uxlens/internal/models"
)

func scoreColor(score int) string {
	switch {
	case score >= 80:
		return green(score)
	case score >= 60:
		return yellow(score)
	}
	return red(score)
}

func severityColor(s models.Severity) string {
	switch s {
	case models.SeverityCritical, models.SeverityHigh:
		return red(strings.ToUpper(string(s)))
	case models.SeverityMedium:
		return yellow(strings.ToUpper(string(s)))
	}
	return cyan(strings.ToUpper(string(s)))
}

func displayResult(result models.AnalysisResult) {
	fmt.Println("\n--------------------------------")
	fmt.Printf("URL: %s\n", cyan(result.URL))
	fmt.Printf("Overall score: %s/100\n", scoreColor(result.Score))
	if result.IsFallback() {
		fmt.Printf("%s %s\n", yellow("NOTE:"), result.FallbackReason)
	}
	fmt.Println("--------------------------------")

	for _, c := range models.Categories {
		section := result.Details.For(c)
		fmt.Printf("%-14s %s  (%d issues)\n", c, scoreColor(section.Score), len(section.Issues))
	}

	if result.Metadata.PageTitle != "" {
		fmt.Printf("\nPage Title: %s\n", result.Metadata.PageTitle)
	}
	fmt.Printf("Load Time: %dms  Page Size: %dKB\n", result.Metadata.LoadTime, result.Metadata.PageSize)
	if len(result.Metadata.Technologies) > 0 {
		fmt.Printf("Technologies: %s\n", strings.Join(result.Metadata.Technologies, ", "))
	}

	printList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}
	printList("Strengths", result.Strengths)
	printList("Improvements", result.Improvements)
	printList("Recommendations", result.Recommendations)

	if issues := result.Issues(); len(issues) > 0 {
		fmt.Printf("\nIssues:\n")
		for _, issue := range issues {
			fmt.Printf("  [%s] %s (%s)\n", severityColor(issue.Severity), issue.Title, issue.Category)
		}
	}

	if len(result.Screenshots) > 0 {
		fmt.Printf("\nScreenshots:\n")
		for _, profile := range result.Screenshots.Profiles() {
			ref := result.Screenshots[profile]
			if strings.HasPrefix(ref, "data:") {
				ref = fmt.Sprintf("embedded (%d bytes)", len(ref))
			}
			fmt.Printf("  %s: %s\n", profile, ref)
		}
	}

	fmt.Println("--------------------------------")
}

func displayTechnologies(snapshot models.PageSnapshot) {
	fmt.Println("\n--------------------------------")
	fmt.Printf("URL: %s\n", cyan(snapshot.URL))
	if snapshot.FinalURL != "" && snapshot.FinalURL != snapshot.URL {
		fmt.Printf("Final URL: %s\n", snapshot.FinalURL)
	}
	fmt.Println("--------------------------------")

	if len(snapshot.Technologies) == 0 {
		fmt.Println("No technologies detected")
		return
	}

	categories := detector.GetTechnologyCategories(snapshot.Technologies)
	names := make([]string, 0, len(categories))
	for name, techs := range categories {
		if len(techs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s: %s\n", magenta(name), strings.Join(categories[name], ", "))
	}
	fmt.Println("--------------------------------")
}

func displayConfigStatus(status models.ConfigStatus, missing []string) {
	check := func(ok bool) string {
		if ok {
			return green("yes")
		}
		return red("no")
	}

	fmt.Printf("API key:     %s\n", check(status.HasAPIKey))
	fmt.Printf("Endpoint:    %s\n", check(status.HasEndpoint))
	fmt.Printf("Deployment:  %s\n", check(status.HasDeployment))
	if status.IsConfigured {
		fmt.Printf("%s AI model is configured\n", green("SUCCESS:"))
		return
	}
	fmt.Printf("%s AI model is not configured (missing %s), demonstration reports will be returned\n",
		yellow("WARNING:"), strings.Join(missing, ", "))
}
