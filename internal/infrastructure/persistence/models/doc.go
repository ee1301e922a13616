// Package models holds the GORM persistence models. Domain entities never
// carry GORM tags; every repository converts through the ToDomain/FromDomain
// pairs in this package.
package models
