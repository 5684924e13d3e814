package ci

import (
	"fmt"
	"os"
)

// CI contains the build information of the CI pipeline that zipdeploy runs in.
type CI struct {
	Provider  Provider `json:"provider"`
	OriginURL string   `json:"originURL,omitempty"`
	Repo      string   `json:"repo,omitempty"`
	RefName   string   `json:"refName,omitempty"` // branch
	SHA       string   `json:"sha,omitempty"`
	User      string   `json:"user,omitempty"`
}

// Detect returns the build information of the current CI environment, if any.
func Detect() (CI, bool) {
	p := GetProvider()
	if p == None {
		return CI{}, false
	}
	return GetCI(p), true
}

// Provider represents a CI Provider.
type Provider struct {
	// Name of the Provider.
	Name string `json:"name"`

	// The environment variable by which the Provider is detected.
	Envar string `json:"-"`
}

var (
	// AppVeyor represents https://www.appveyor.com/
	AppVeyor = Provider{Name: "AppVeyor", Envar: "APPVEYOR_BUILD_NUMBER"}
	// AWS represents https://aws.amazon.com/codebuild/
	AWS = Provider{Name: "AWS CodeBuild", Envar: "CODEBUILD_INITIATOR"}
	// Azure represents https://azure.microsoft.com/en-us/services/devops/
	Azure = Provider{Name: "Azure DevOps", Envar: "TF_BUILD"}
	// Bamboo represents https://www.atlassian.com/software/bamboo
	Bamboo = Provider{Name: "Bamboo", Envar: "bamboo_buildNumber"}
	// Bitbucket represents https://bitbucket.org/product/features/pipelines
	Bitbucket = Provider{Name: "Bitbucket", Envar: "BITBUCKET_BUILD_NUMBER"}
	// Buildkite represents https://buildkite.com/
	Buildkite = Provider{Name: "Buildkite", Envar: "BUILDKITE"}
	// Buddy represents https://buddy.works/
	Buddy = Provider{Name: "Buddy", Envar: "BUDDY"}
	// Circle represents https://circleci.com/
	Circle = Provider{Name: "CircleCI", Envar: "CIRCLECI"}
	// CodeShip represents https://www.cloudbees.com/products/codeship
	CodeShip = Provider{Name: "CloudBees CodeShip", Envar: "CI_NAME"}
	// Drone represents https://www.drone.io/
	Drone = Provider{Name: "Drone", Envar: "DRONE_BUILD_NUMBER"}
	// GitHub represents https://github.com/
	GitHub = Provider{Name: "GitHub", Envar: "GITHUB_RUN_ID"}
	// GitLab represents https://about.gitlab.com/
	GitLab = Provider{Name: "GitLab", Envar: "CI_PIPELINE_ID"}
	// Jenkins represents https://www.jenkins.io/
	Jenkins = Provider{Name: "Jenkins", Envar: "BUILD_NUMBER"}
	// Semaphore represents https://semaphoreci.com/
	Semaphore = Provider{Name: "Semaphore", Envar: "SEMAPHORE_EXECUTABLE_UUID"}
	// Travis represents https://www.travis-ci.com/
	Travis = Provider{Name: "Travis CI", Envar: "TRAVIS_BUILD_ID"}
	// TeamCity represents https://www.jetbrains.com/teamcity/
	TeamCity = Provider{Name: "TeamCity", Envar: "TEAMCITY_VERSION"}

	// None represents a non-CI environment.
	None = Provider{}
)

// Providers contains a list of all supported providers.
var Providers = []Provider{
	AppVeyor,
	AWS,
	Azure,
	Bamboo,
	Bitbucket,
	Buildkite,
	Buddy,
	Circle,
	CodeShip,
	Drone,
	GitHub,
	GitLab,
	Jenkins,
	Semaphore,
	Travis,
	TeamCity,
}

// GetProvider returns a CI Provider if this code is executed in a known CI environment.
// Returns None if it's not a CI environment or if the CI Provider could not be detected.
func GetProvider() Provider {
	for _, p := range Providers {
		_, ok := os.LookupEnv(p.Envar)
		if ok {
			return p
		}
	}

	return None
}

// GetCI returns the build information that the given Provider exposes through its environment variables.
// Providers without a known mapping only carry their name.
func GetCI(provider Provider) CI {
	switch provider {
	case AppVeyor:
		return CI{
			Provider:  provider,
			OriginURL: os.Getenv("APPVEYOR_URL"),
			Repo:      os.Getenv("APPVEYOR_REPO_NAME"),
			RefName:   os.Getenv("APPVEYOR_REPO_BRANCH"),
			SHA:       os.Getenv("APPVEYOR_REPO_COMMIT"),
			User:      os.Getenv("APPVEYOR_REPO_COMMIT_AUTHOR"),
		}
	case AWS:
		return CI{
			Provider:  provider,
			OriginURL: os.Getenv("CODEBUILD_PUBLIC_BUILD_URL"),
			Repo:      os.Getenv("CODEBUILD_SOURCE_REPO_URL"),
			RefName:   os.Getenv("CODEBUILD_SOURCE_VERSION"),
			SHA:       os.Getenv("CODEBUILD_RESOLVED_SOURCE_VERSION"),
			User:      os.Getenv("CODEBUILD_WEBHOOK_ACTOR_ACCOUNT_ID"),
		}
	case Azure:
		return CI{
			Provider: provider,
			OriginURL: fmt.Sprintf("%s%s/_build/results?buildId=%s",
				os.Getenv("SYSTEM_COLLECTIONURI"), os.Getenv("SYSTEM_TEAMPROJECT"), os.Getenv("BUILD_BUILDID")),
			Repo:    os.Getenv("BUILD_REPOSITORY_NAME"),
			RefName: os.Getenv("BUILD_SOURCEBRANCHNAME"),
			SHA:     os.Getenv("BUILD_SOURCEVERSION"),
			User:    os.Getenv("BUILD_REQUESTEDFOR"),
		}
	case GitHub:
		return CI{
			Provider:  provider,
			OriginURL: fmt.Sprintf("%s/%s/actions/runs/%s", os.Getenv("GITHUB_SERVER_URL"), os.Getenv("GITHUB_REPOSITORY"), os.Getenv("GITHUB_RUN_ID")),
			Repo:      os.Getenv("GITHUB_REPOSITORY"),
			RefName:   os.Getenv("GITHUB_REF_NAME"),
			SHA:       os.Getenv("GITHUB_SHA"),
			User:      os.Getenv("GITHUB_ACTOR"),
		}
	case GitLab:
		return CI{
			Provider:  provider,
			OriginURL: os.Getenv("CI_JOB_URL"),
			Repo:      os.Getenv("CI_PROJECT_PATH"),
			RefName:   os.Getenv("CI_COMMIT_REF_NAME"),
			SHA:       os.Getenv("CI_COMMIT_SHA"),
			User:      os.Getenv("GITLAB_USER_LOGIN"),
		}
	default:
		return CI{Provider: provider}
	}
}
