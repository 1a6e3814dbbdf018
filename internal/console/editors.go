package console

import "context"

// TokenSource yields the current upstream bearer token for the session. The
// session manager owns the token; controllers never cache it because a silent
// refresh can swap it mid-session.
type TokenSource func() string

// StagedEditor batches local mutations and commits them all on an explicit
// Save; Discard reloads server-confirmed state. The questionnaire editor is
// the only staged editor: multi-field, multi-language validation has to run
// over the whole batch before anything is written.
type StagedEditor interface {
	IsDirty() bool
	Save(ctx context.Context) error
	Discard(ctx context.Context) error
}

// ImmediateEditor commits every mutation straight to the upstream API. The
// option sub-editor works this way: options are independent list items with
// no cross-field validation dependency.
type ImmediateEditor interface {
	Reload(ctx context.Context) error
}
