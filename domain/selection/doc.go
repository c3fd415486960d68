// Package selection implements the actor that owns the source image and the
// user's selection. It turns presentation input into preview updates and keeps
// at most one composite request in flight at the compositor.
package selection
