// cmd/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Lawrence9908/ecommerce-backend-api/app"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
)

// @title           E-commerce Backend API
// @version         1.0
// @description     Auth, product catalogue and featured products cache for an online shop.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name accessToken
func main() {
	makeAdmin := flag.String("make-admin", "", "grant the admin role to the registered user with this email and exit")
	flag.Parse()

	if *makeAdmin != "" {
		if err := app.GrantRole(*makeAdmin, model.RoleAdmin); err != nil {
			fmt.Fprintf(os.Stderr, "could not grant admin role: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s is now an admin\n", *makeAdmin)
		return
	}

	app.Run()
}
