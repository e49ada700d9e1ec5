// Package reimage coordinates the full bare-metal reimage lifecycle.
//
// A Reimager targets exactly one host. Create runs the whole sequence:
//
//  1. Resolve the host and image records on the imaging service
//  2. Point the host record at the image and schedule a deploy task
//  3. Power-cycle the host and wait for the deploy task to finish
//  4. Wait for SSH reachability (and, optionally, a sentinel file)
//  5. Fix the post-image hostname and verify the installed OS
//
// Any failure between scheduling and deploy completion cancels the scheduled
// task before the error surfaces, so no orphaned active task is left on the
// service. All waits are bounded polling loops; there is no internal
// parallelism and no state survives the process.
//
// Destroy is deliberately a no-op: idle bare-metal nodes are left as-is
// between uses.
package reimage
