// Command zoneshift converts date and time values between display
// timezones and the storage timezone.
package main

func main() {
	Execute()
}
