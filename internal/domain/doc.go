// Package domain contains the core business entities of the task list
// (users and tasks) together with their validation rules. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
