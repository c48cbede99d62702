// Command contrast drives the same probe cases against a running strict
// instance and a running permissive instance and prints the state each one
// ends up in.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type probe struct {
	title   string
	payload string
	headers map[string]string
}

var probes = []probe{
	{"CASE 1: valid contract payload", `{"customer_name":"Markus","pizza":"margherita","quantity":1}`, nil},
	{"CASE 2: quantity wrong type (string)", `{"customer_name":"Markus","pizza":"margherita","quantity":"10"}`, nil},
	{"CASE 3: unknown pizza", `{"customer_name":"Markus","pizza":"salmai","quantity":1}`, nil},
	{"CASE 4: sold out pizza", `{"customer_name":"Markus","pizza":"funghi","quantity":1}`, nil},
	{"CASE 5: typo field names + too large", `{"name":"Markus","pizaa":"salami","anzahl":"99"}`, nil},
	{"CASE 6: extra field", `{"customer_name":"Markus","pizza":"margherita","quantity":1,"coupon":"FREE"}`, nil},
	{"CASE 7: forced kitchen fail (state consistency test)",
		`{"customer_name":"Markus","pizza":"margherita","quantity":1}`,
		map[string]string{"X-Force-Kitchen-Fail": "1"}},
}

func main() {
	strictBase := flag.String("strict", "http://127.0.0.1:8000", "strict service base URL")
	permissiveBase := flag.String("permissive", "http://127.0.0.1:8001", "permissive service base URL")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}
	for _, p := range probes {
		runProbe(client, *strictBase, *permissiveBase, p)
	}
}

func runProbe(client *http.Client, strictBase, permissiveBase string, p probe) {
	post(client, strictBase+"/reset", nil, nil)
	post(client, permissiveBase+"/reset", nil, nil)

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Println(p.title)
	fmt.Println("- payload")
	fmt.Println(pretty([]byte(p.payload)))

	for _, side := range []struct{ name, base string }{
		{"strict", strictBase},
		{"permissive", permissiveBase},
	} {
		invBefore := get(client, side.base+"/inventory")
		kitBefore := get(client, side.base+"/kitchen")
		status, body := post(client, side.base+"/order", []byte(p.payload), p.headers)
		invAfter := get(client, side.base+"/inventory")
		kitAfter := get(client, side.base+"/kitchen")

		fmt.Printf("\n- %s\n", side.name)
		fmt.Printf("status=%d\n", status)
		fmt.Println(pretty(body))
		fmt.Println("inventory_before=" + pretty(invBefore))
		fmt.Println("inventory_after =" + pretty(invAfter))
		fmt.Println("kitchen_before  =" + pretty(kitBefore))
		fmt.Println("kitchen_after   =" + pretty(kitAfter))
	}
}

func get(client *http.Client, url string) []byte {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return []byte(fmt.Sprintf("{%q:%q}", "error", err.Error()))
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := client.Do(req)
	if err != nil {
		return []byte(fmt.Sprintf("{%q:%q}", "error", err.Error()))
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return body
}

func post(client *http.Client, url string, payload []byte, headers map[string]string) (int, []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, []byte(fmt.Sprintf("{%q:%q}", "error", err.Error()))
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, []byte(fmt.Sprintf("{%q:%q}", "error", err.Error()))
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func pretty(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
