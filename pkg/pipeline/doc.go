// Package pipeline turns a business brief into content overrides for a
// template spec in two sequential stages.
//
// Generate drafts per-section copy, image hints and asset mappings. Enhance
// asks the service to sharpen that draft and merges the polished fields back
// field by field, adding SEO metadata, alt text and form labels. Both stages
// are total: a failed call, a timeout or an unusable answer is logged and
// replaced by a fallback (the brief-derived draft, or the draft unchanged).
package pipeline
