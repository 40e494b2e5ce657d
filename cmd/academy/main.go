package main

import "github.com/mirahq/academy-crm/internal/app"

func main() {
	err := app.NewAcademyApp().Run()
	if err != nil {
		panic(err)
	}
}
