package browser

import (
	"encoding/json"
	"fmt"
)

// PageFacts is the raw, engine-independent readout of a loaded page.
// Numbers come straight from the DOM and are not yet validated.
type PageFacts struct {
	HTML          string             `json:"-"`
	VisibleText   string             `json:"visibleText"`
	Metadata      FactsMetadata      `json:"metadata"`
	Accessibility FactsAccessibility `json:"accessibility"`
	Performance   FactsPerformance   `json:"performance"`
	Viewport      FactsViewport      `json:"viewport"`
}

type FactsMetadata struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Keywords      string `json:"keywords"`
	Viewport      string `json:"viewport"`
	Robots        string `json:"robots"`
	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	OGImage       string `json:"ogImage"`
	Canonical     string `json:"canonical"`
	Language      string `json:"language"`
	Charset       string `json:"charset"`
}

type FactsHeading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type FactsAccessibility struct {
	ImagesWithoutAlt   int            `json:"imagesWithoutAlt"`
	TotalImages        int            `json:"totalImages"`
	LinksWithoutText   int            `json:"linksWithoutText"`
	TotalLinks         int            `json:"totalLinks"`
	ButtonsWithoutText int            `json:"buttonsWithoutText"`
	TotalButtons       int            `json:"totalButtons"`
	FormsWithoutLabels int            `json:"formsWithoutLabels"`
	TotalForms         int            `json:"totalForms"`
	TotalTables        int            `json:"totalTables"`
	TotalLists         int            `json:"totalLists"`
	Headings           []FactsHeading `json:"headings"`
	ImagesMissingAlt   []string       `json:"imagesMissingAlt"`
	LinksMissingText   []string       `json:"linksMissingText"`
	ButtonsMissingText []string       `json:"buttonsMissingText"`
	InputsMissingLabel []string       `json:"inputsMissingLabel"`
}

// FactsPerformance timings are milliseconds since navigation start
type FactsPerformance struct {
	LoadTime             float64 `json:"loadTime"`
	DOMContentLoaded     float64 `json:"domContentLoaded"`
	FirstPaint           float64 `json:"firstPaint"`
	FirstContentfulPaint float64 `json:"firstContentfulPaint"`
}

type FactsViewport struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	DevicePixelRatio float64 `json:"devicePixelRatio"`
	ScrollWidth      int     `json:"scrollWidth"`
	ScrollHeight     int     `json:"scrollHeight"`
}

// DecodeFacts parses the JSON string produced by FactsFunction
func DecodeFacts(raw string) (PageFacts, error) {
	var facts PageFacts
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		return PageFacts{}, fmt.Errorf("failed to decode page facts: %w", err)
	}
	return facts, nil
}

// FactsExpression evaluates FactsFunction in place, for engines that take an expression
const FactsExpression = "(" + FactsFunction + ")()"

// FactsFunction reads the DOM facts without mutating the document and returns them
// as a JSON string. Offender lists are capped at 25 entries.
const FactsFunction = `() => {
  const text = (el) => (el.textContent || '').trim();
  const cap = (list) => list.slice(0, 25);
  const attr = (selector, name) => {
    const el = document.querySelector(selector);
    return el ? (el.getAttribute(name) || '') : '';
  };
  const hasLabel = (input) => {
    const id = input.getAttribute('id');
    if (id && document.querySelector('label[for="' + CSS.escape(id) + '"]')) return true;
    return !!input.closest('label');
  };

  const images = Array.from(document.querySelectorAll('img'));
  const links = Array.from(document.querySelectorAll('a'));
  const buttons = Array.from(document.querySelectorAll('button, input[type="button"], input[type="submit"]'));
  const forms = Array.from(document.querySelectorAll('form'));
  const inputs = Array.from(document.querySelectorAll('input, textarea, select'));

  const imagesNoAlt = images.filter((img) => !img.alt);
  const linksNoText = links.filter((a) => !text(a));
  const buttonsNoText = buttons.filter((b) => !text(b) && !b.getAttribute('aria-label'));
  const inputsNoLabel = inputs.filter((i) => !hasLabel(i));

  const nav = performance.getEntriesByType('navigation')[0];
  const paint = (name) => {
    const entry = performance.getEntriesByType('paint').find((p) => p.name === name);
    return entry ? entry.startTime : 0;
  };

  return JSON.stringify({
    visibleText: document.body ? (document.body.innerText || document.body.textContent || '') : '',
    metadata: {
      title: document.title || '',
      description: attr('meta[name="description"]', 'content'),
      keywords: attr('meta[name="keywords"]', 'content'),
      viewport: attr('meta[name="viewport"]', 'content'),
      robots: attr('meta[name="robots"]', 'content'),
      ogTitle: attr('meta[property="og:title"]', 'content'),
      ogDescription: attr('meta[property="og:description"]', 'content'),
      ogImage: attr('meta[property="og:image"]', 'content'),
      canonical: attr('link[rel="canonical"]', 'href'),
      language: document.documentElement.lang || '',
      charset: document.characterSet || ''
    },
    accessibility: {
      imagesWithoutAlt: imagesNoAlt.length,
      totalImages: images.length,
      linksWithoutText: linksNoText.length,
      totalLinks: links.length,
      buttonsWithoutText: buttonsNoText.length,
      totalButtons: buttons.length,
      formsWithoutLabels: forms.filter((f) => !f.querySelector('label')).length,
      totalForms: forms.length,
      totalTables: document.querySelectorAll('table').length,
      totalLists: document.querySelectorAll('ul, ol').length,
      headings: Array.from(document.querySelectorAll('h1, h2, h3, h4, h5, h6'))
        .map((h) => ({ level: h.tagName.toLowerCase(), text: text(h) })),
      imagesMissingAlt: cap(imagesNoAlt.map((img) => (img.currentSrc || img.src || '').split('/').pop())),
      linksMissingText: cap(linksNoText.map((a) => a.href || '')),
      buttonsMissingText: cap(buttonsNoText.map((b) => b.getAttribute('type') || 'button')),
      inputsMissingLabel: cap(inputsNoLabel.map((i) =>
        (i.getAttribute('type') || i.tagName.toLowerCase()) + ' (' + (i.getAttribute('name') || i.getAttribute('id') || 'unnamed') + ')'))
    },
    performance: {
      loadTime: nav ? nav.loadEventEnd : 0,
      domContentLoaded: nav ? nav.domContentLoadedEventEnd : 0,
      firstPaint: paint('first-paint'),
      firstContentfulPaint: paint('first-contentful-paint')
    },
    viewport: {
      width: window.innerWidth,
      height: window.innerHeight,
      devicePixelRatio: window.devicePixelRatio,
      scrollWidth: document.documentElement.scrollWidth,
      scrollHeight: document.documentElement.scrollHeight
    }
  });
}`
