package main

// General API documentation for swaggo. Run `swag init -g cmd/vaxslots/docs.go` to regenerate docs.
//
// @title           vaxslots API
// @version         1.0
// @description     Vaccination center registry with concurrency-safe slot booking and live change notifications.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
