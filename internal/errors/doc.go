// Package errors provides structured error handling for the wildlands engine.
//
// Errors carry a machine-readable code, a message, an optional cause, and
// optional metadata. The engine's error taxonomy maps onto codes as follows:
//
//   - validation failures (bad fusion set, out-of-bounds move): InvalidArgument
//   - unmet gameplay preconditions (training on cooldown, dead character): FailedPrecondition
//   - missing characters/monsters/tiles: NotFound
//   - persistence failures, caught at the boundary: Unavailable
//   - anything unexpected: Internal
//
// Creating errors:
//
//	err := errors.NotFoundf("character %s not found", id)
//	err := errors.FailedPrecondition("training is on cooldown")
//
// Wrapping:
//
//	if err := repo.Save(ctx, doc); err != nil {
//	    return errors.Wrap(err, "failed to persist save document")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) { ... }
//	status := errors.GetCode(err).HTTPStatus()
//
// Config validation uses the fluent builder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Clock == nil {
//	    vb.RequiredField("Clock")
//	}
//	return vb.Build()
package errors
