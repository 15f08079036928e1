// Package preflight provides readiness checks for the folders and binaries
// a batch run depends on.
//
// These checks run in two contexts:
//   - The batch driver calls CheckDirectoryAccess on the output folder before
//     any clip is cut, so permission problems fail the run up front.
//   - The CLI "eafcut deps" command uses CheckSystemDeps to display binary
//     availability.
package preflight
