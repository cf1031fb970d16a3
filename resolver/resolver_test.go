package resolver

import (
	"reflect"
	"testing"
)

const listingURL = "https://directory.example.com/profiles"

func TestResolveProfiles_NumericIDLinksOnly(t *testing.T) {
	rawHTML := `<html><body>
		<a href="/profiles/jane-doe/123456">Jane Doe</a>
		<a href="/profiles?category=x">Browse by category</a>
		<a href="/profiles/john-smith/98765">John Smith</a>
		<a href="/profiles/page/2">Next page</a>
		<a href="/about">About us</a>
		<a href="https://other.example.org/profiles/jane-doe/123456">offsite copy</a>
	</body></html>`

	got := ResolveProfiles(listingURL, rawHTML, 10)
	want := []string{
		"https://directory.example.com/profiles/jane-doe/123456",
		"https://directory.example.com/profiles/john-smith/98765",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveProfiles = %v, want %v", got, want)
	}
}

func TestResolveProfiles_ShortNumericSegmentRejected(t *testing.T) {
	rawHTML := `<a href="/profiles/jane-doe/123">Jane</a>`
	if got := ResolveProfiles(listingURL, rawHTML, 10); len(got) != 0 {
		t.Errorf("3-digit segment should not count as a profile ID, got %v", got)
	}
}

func TestResolveProfiles_PreservesDocumentOrder(t *testing.T) {
	rawHTML := `
		<a href="/profiles/zz-last-alphabetically/11111">Z</a>
		<a href="/profiles/aa-first-alphabetically/22222">A</a>
		<a href="/profiles/mm-middle/33333">M</a>`

	got := ResolveProfiles(listingURL, rawHTML, 10)
	want := []string{
		"https://directory.example.com/profiles/zz-last-alphabetically/11111",
		"https://directory.example.com/profiles/aa-first-alphabetically/22222",
		"https://directory.example.com/profiles/mm-middle/33333",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestResolveProfiles_CapAndDedup(t *testing.T) {
	rawHTML := `
		<a href="/profiles/a/10001">A</a>
		<a href="/profiles/a/10001">A again</a>
		<a href="/profiles/b/10002">B</a>
		<a href="/profiles/c/10003">C</a>`

	got := ResolveProfiles(listingURL, rawHTML, 2)
	if len(got) != 2 {
		t.Fatalf("expected cap at 2 profiles, got %d: %v", len(got), got)
	}
	if got[0] != "https://directory.example.com/profiles/a/10001" ||
		got[1] != "https://directory.example.com/profiles/b/10002" {
		t.Errorf("unexpected capped result: %v", got)
	}
}

func TestResolveProfiles_NoMatchesIsEmpty(t *testing.T) {
	rawHTML := `<a href="/blog/post-title">Read our blog</a><a href="/contact">Contact</a>`
	if got := ResolveProfiles(listingURL, rawHTML, 10); got != nil {
		t.Errorf("expected nil for a page with no profile links, got %v", got)
	}
}

func TestResolveProfiles_InvalidListingURL(t *testing.T) {
	if got := ResolveProfiles("://not-a-url", "<a href='/profiles/a/12345'>A</a>", 10); got != nil {
		t.Errorf("expected nil for unparseable listing URL, got %v", got)
	}
}
