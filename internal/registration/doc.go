// Package registration implements the account registration form: the field
// state behind the register page, the password policy checklist, the phone
// number rule, and the submission workflow that hands credentials to the
// registration endpoint and then signs the new user in.
//
// The Controller is transport agnostic. HTTP handlers create one per request,
// replay the submitted fields through its Update methods and call Submit;
// collaborators (the registration endpoint, the identity service and the
// current session) are passed in explicitly through Deps.
package registration
