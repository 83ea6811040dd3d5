// alarmsync keeps CloudWatch metric alarms in step with a declaratively
// selected fleet of AWS resources. Discover. Diff. Apply.
package main

func main() {
	Execute()
}
