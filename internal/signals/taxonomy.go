package signals

// group is a keyword family scanned against the lowercased résumé text.
// targets lists the categories a matching keyword is added to.
type group struct {
	name     string
	targets  []Category
	keywords []string
}

var (
	techTargets      = []Category{Languages, Technologies}
	frameworkTargets = []Category{Frameworks, Technologies}
	toolTargets      = []Category{Tools, Technologies}
)

// taxonomy order matters: the synthesizer takes the first entries of a
// category, so groups and keywords are scanned in this order.
var taxonomy = []group{
	{
		name:    "programming_languages",
		targets: techTargets,
		keywords: []string{
			"javascript", "js", "typescript", "ts", "python", "java", "c++", "cpp", "c#", "csharp",
			"php", "ruby", "go", "golang", "rust", "kotlin", "swift", "scala", "r", "matlab",
			"perl", "shell", "bash", "powershell", "objective-c", "dart", "elixir", "haskell",
			"clojure", "f#", "vb.net", "visual basic", "cobol", "fortran", "assembly", "lua",
		},
	},
	{
		name:    "web_technologies",
		targets: toolTargets,
		keywords: []string{
			"html", "html5", "css", "css3", "sass", "scss", "less", "bootstrap", "tailwind",
			"material-ui", "mui", "chakra-ui", "bulma", "foundation", "semantic-ui",
			"webpack", "vite", "parcel", "rollup", "gulp", "grunt", "npm", "yarn", "pnpm",
		},
	},
	{
		name:    "frontend_frameworks",
		targets: frameworkTargets,
		keywords: []string{
			"react", "reactjs", "vue", "vuejs", "angular", "angularjs", "svelte", "ember",
			"backbone", "jquery", "next.js", "nextjs", "nuxt", "gatsby", "remix",
			"react native", "flutter", "ionic", "cordova", "phonegap", "xamarin",
		},
	},
	{
		name:    "backend_frameworks",
		targets: frameworkTargets,
		keywords: []string{
			"node.js", "nodejs", "express", "expressjs", "fastify", "koa", "nest.js", "nestjs",
			"django", "flask", "fastapi", "tornado", "pyramid", "spring", "spring boot",
			"hibernate", "struts", "play framework", "laravel", "symfony", "codeigniter",
			"ruby on rails", "rails", "sinatra", "gin", "echo", "fiber", "beego",
			"asp.net", "asp.net core", ".net", ".net core", "entity framework",
		},
	},
	{
		name:    "databases",
		targets: []Category{Databases, Technologies},
		keywords: []string{
			"mysql", "postgresql", "postgres", "sqlite", "mongodb", "redis", "cassandra",
			"dynamodb", "couchdb", "neo4j", "elasticsearch", "solr", "oracle", "sql server",
			"mariadb", "firestore", "realm", "couchbase", "influxdb", "timescaledb",
			"clickhouse", "snowflake", "bigquery", "redshift", "athena",
		},
	},
	{
		name:    "cloud_services",
		targets: []Category{CloudServices, Technologies},
		keywords: []string{
			"aws", "amazon web services", "azure", "microsoft azure", "gcp", "google cloud",
			"google cloud platform", "heroku", "vercel", "netlify", "digitalocean",
			"linode", "vultr", "cloudflare", "firebase", "supabase", "planetscale",
			"ec2", "s3", "lambda", "rds", "dynamodb", "cloudfront", "route53",
			"elastic beanstalk", "ecs", "eks", "fargate", "api gateway", "cloudwatch",
		},
	},
	{
		name:    "devops_tools",
		targets: toolTargets,
		keywords: []string{
			"docker", "kubernetes", "k8s", "jenkins", "gitlab ci", "github actions",
			"circleci", "travis ci", "azure devops", "terraform", "ansible", "puppet",
			"chef", "vagrant", "helm", "istio", "prometheus", "grafana", "elk stack",
			"logstash", "kibana", "splunk", "datadog", "new relic", "sentry",
		},
	},
	{
		name:    "testing_tools",
		targets: toolTargets,
		keywords: []string{
			"jest", "mocha", "chai", "jasmine", "karma", "protractor", "cypress",
			"selenium", "webdriver", "puppeteer", "playwright", "junit", "testng",
			"pytest", "unittest", "rspec", "minitest", "phpunit", "xunit",
			"postman", "insomnia", "swagger", "openapi",
		},
	},
	{
		name:    "version_control",
		targets: toolTargets,
		keywords: []string{
			"git", "github", "gitlab", "bitbucket", "svn", "mercurial", "perforce",
			"git flow", "github flow", "pull request", "merge request", "code review",
		},
	},
	{
		name:    "data_science",
		targets: toolTargets,
		keywords: []string{
			"pandas", "numpy", "scipy", "matplotlib", "seaborn", "plotly", "bokeh",
			"scikit-learn", "sklearn", "tensorflow", "keras", "pytorch", "opencv",
			"nltk", "spacy", "gensim", "transformers", "hugging face", "jupyter",
			"anaconda", "r studio", "tableau", "power bi", "qlik", "looker",
		},
	},
	{
		name:    "mobile",
		targets: toolTargets,
		keywords: []string{
			"ios", "android", "swift", "objective-c", "kotlin", "java", "react native",
			"flutter", "xamarin", "ionic", "cordova", "phonegap", "unity", "unreal",
		},
	},
	{
		name:    "methodologies",
		targets: []Category{Methodologies},
		keywords: []string{
			"agile", "scrum", "kanban", "lean", "waterfall", "devops", "ci/cd",
			"continuous integration", "continuous deployment", "tdd", "test driven development",
			"bdd", "behavior driven development", "pair programming", "code review",
			"microservices", "monolith", "serverless", "event driven", "domain driven design",
		},
	},
	{
		name:    "roles",
		targets: []Category{Roles},
		keywords: []string{
			"software engineer", "software developer", "full stack developer", "full-stack developer",
			"frontend developer", "front-end developer", "backend developer", "back-end developer",
			"web developer", "mobile developer", "ios developer", "android developer",
			"devops engineer", "site reliability engineer", "sre", "platform engineer",
			"cloud engineer", "infrastructure engineer", "security engineer", "qa engineer",
			"test engineer", "automation engineer", "build engineer", "release engineer",
			"data scientist", "data analyst", "data engineer", "machine learning engineer",
			"ml engineer", "ai engineer", "research scientist", "business analyst",
			"tech lead", "technical lead", "team lead", "engineering manager",
			"senior software engineer", "principal engineer", "staff engineer",
			"architect", "solution architect", "system architect", "cloud architect",
			"intern", "junior", "senior", "lead", "principal", "staff", "director",
		},
	},
	{
		name:    "industries",
		targets: []Category{Industries},
		keywords: []string{
			"fintech", "healthcare", "edtech", "e-commerce", "ecommerce", "retail",
			"banking", "finance", "insurance", "real estate", "automotive", "gaming",
			"entertainment", "media", "telecommunications", "telecom", "logistics",
			"supply chain", "manufacturing", "energy", "utilities", "government",
			"non-profit", "startup", "enterprise", "saas", "b2b", "b2c",
		},
	},
	{
		name:    "certifications",
		targets: []Category{Certifications},
		keywords: []string{
			"aws certified", "azure certified", "google cloud certified", "cissp", "cism",
			"pmp", "scrum master", "product owner", "safe", "itil", "comptia",
			"cisco certified", "microsoft certified", "oracle certified", "red hat certified",
		},
	},
}

// entry is one precompiled keyword with every category it feeds.
type entry struct {
	keyword string
	targets []Category
}

// table flattens taxonomy into scan order. A keyword listed in several
// groups appears once per group so each group's targets are honoured.
var table = compile(taxonomy)

func compile(groups []group) []entry {
	var out []entry
	for _, g := range groups {
		for _, kw := range g.keywords {
			out = append(out, entry{keyword: kw, targets: g.targets})
		}
	}
	return out
}
