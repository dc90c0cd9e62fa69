// Package accesscontrol contains the Bazaar role ledger.
//
// It gates every privileged marketplace operation: admins grant the artist
// role, artists create collections and mint items. Role membership is a plain
// set per role, checked through the RoleChecker port by other modules.
package accesscontrol
