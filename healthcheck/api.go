// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package healthcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

var (
	ErrStatus        = errors.New("status code is invalid")
	ErrNoPingURL     = errors.New("health check response has no ping url")
	ErrNoHealthCheck = errors.New("no health check configured")
)

const (
	DefaultAPIURL  = "https://healthchecks.io/api/v3"
	DefaultPingURL = "https://hc-ping.com"
)

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"desc,omitempty"`
	Grace       int    `json:"grace"`
	Schedule    string `json:"schedule"`
	Slug        string `json:"slug"`
	Tags        string `json:"tags"`
	Timezone    string `json:"tz"`
}

// Client talks to the healthchecks.io management and ping APIs
type Client struct {
	APIKey  string
	APIURL  string
	PingURL string

	client *resty.Client
}

// New returns a client configured from the healthchecks.* settings
func New() *Client {
	apiURL := viper.GetString("healthchecks.url")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	pingURL := viper.GetString("healthchecks.ping_url")
	if pingURL == "" {
		pingURL = DefaultPingURL
	}

	return NewClient(viper.GetString("healthchecks.apikey"), apiURL, pingURL)
}

func NewClient(apiKey, apiURL, pingURL string) *Client {
	return &Client{
		APIKey:  apiKey,
		APIURL:  strings.TrimSuffix(apiURL, "/"),
		PingURL: strings.TrimSuffix(pingURL, "/"),
		client:  resty.New(),
	}
}

func (hc *Client) request() *resty.Request {
	return hc.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", hc.APIKey)
}

// Create a new healthchecks.io check and return the id
func (hc *Client) Create(name string, slug string, tags []string, schedule string) (string, error) {
	command := createReq{
		Name:     name,
		Slug:     slug,
		Tags:     strings.Join(tags, " "),
		Grace:    3600,
		Schedule: schedule,
		Timezone: "Europe/London",
	}

	resp, err := hc.request().
		SetBody(command).
		Post(hc.APIURL + "/checks/")

	if err != nil {
		return "", err
	}

	if resp.StatusCode() > 201 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	pingURL := gjson.GetBytes(resp.Body(), "ping_url").String()
	if pingURL == "" {
		return "", ErrNoPingURL
	}

	checkID := strings.Split(pingURL, "/")
	healthCheckID := checkID[len(checkID)-1]

	return healthCheckID, nil
}

// Delete a health check
func (hc *Client) Delete(id string) error {
	return hc.manage(id, hc.request().Delete, "")
}

// Pause monitoring of a health check
func (hc *Client) Pause(id string) error {
	return hc.manage(id, hc.request().Post, "/pause")
}

// Resume monitoring of a health check
func (hc *Client) Resume(id string) error {
	return hc.manage(id, hc.request().Post, "/resume")
}

func (hc *Client) manage(id string, method func(string) (*resty.Response, error), action string) error {
	resp, err := method(fmt.Sprintf("%s/checks/%s%s", hc.APIURL, id, action))
	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}

// Ping signals a successful run
func (hc *Client) Ping(id string) error {
	return hc.ping(id, "")
}

// Fail signals a failed run; msg is attached to the ping as its body
func (hc *Client) Fail(id string, msg string) error {
	return hc.ping(id, msg, "/fail")
}

func (hc *Client) ping(id string, msg string, suffix ...string) error {
	if id == "" {
		return ErrNoHealthCheck
	}

	url := fmt.Sprintf("%s/%s%s", hc.PingURL, id, strings.Join(suffix, ""))
	resp, err := hc.client.R().SetBody(msg).Post(url)
	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}

// Create a new health check using the configured client
func Create(name string, slug string, tags []string, schedule string) (string, error) {
	return New().Create(name, slug, tags, schedule)
}

// Delete a health check using the configured client
func Delete(id string) error {
	return New().Delete(id)
}

// Pause a health check using the configured client
func Pause(id string) error {
	return New().Pause(id)
}

// Resume a health check using the configured client
func Resume(id string) error {
	return New().Resume(id)
}

// Ping a health check using the configured client
func Ping(id string) error {
	return New().Ping(id)
}

// Fail a health check using the configured client
func Fail(id string, msg string) error {
	return New().Fail(id, msg)
}
