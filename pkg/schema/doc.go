// Package schema implements per-step and full-document validation for
// wizard forms.
//
// A StepSchema maps field names to Field definitions (type plus optional
// constraints). Validation runs in one of two modes:
//
//   - Strict: the real constraints for the step. Required fields must be
//     present, every constraint is enforced, any failure is an error.
//     This mode gates forward navigation.
//   - Lenient: the "save whatever you have" mode used for drafts and
//     progress display. Missing required fields are demoted to warnings;
//     constraints still apply to values that are present, because a draft
//     should not silently hold garbage.
//
// Completion percentage is computed independently of validity: it is the
// fraction of required fields that are present and non-empty. A step can
// be 100% complete and still strictly invalid (an out-of-range price):
// progress bars and navigation gates are different UI concerns.
//
// Error messages come from Message, a pure function of
// (field, violation kind, constraint), so rendering is deterministic.
package schema
