// Package velosiam bootstraps the GCP IAM objects a Velostrata deployment needs.
//
// The velos-iam CLI creates, for one named deployment, two custom roles and two
// service accounts in a GCP project (optionally under an organization) by
// driving the gcloud command line tool.
//
// # Overview
//
// velos-iam provides:
//   - Enabling of the required Google APIs
//   - Velostrata Manager role and service account (organization scoped with --org-id)
//   - Velostrata Storage Access role and Cloud Extension service account (project scoped)
//   - Idempotent re-runs: existing objects are reported and their bindings re-applied
//
// # Installation
//
//	go install github.com/blackwell-systems/velostrata-iam-bootstrap/cmd/velos-iam@latest
//
// # Quick Start
//
//	velos-iam status
//	velos-iam -d deployment1 -p my-project-id
//	velos-iam -d deployment1 -p my-project-id -o 123451234
//
// # Architecture
//
// The run is a fixed sequence of steps:
//   - internal/orchestrator: step order, reporting, stop on first fatal error
//   - internal/provision: role, service account and binding calls
//   - internal/gcloud: process gateway and argument builders
//   - internal/catalog: APIs, permissions and predefined roles
//   - internal/deployment: deployment name validation and derived names
//
// # License
//
// Apache 2.0 - See LICENSE file for details.
package velosiam
