package ledger

// 结算合约ABI定义（内置版，可由配置的 abi_path 覆盖）
const settlementABI = `[
	{
		"inputs": [
			{"name": "projectId", "type": "uint256"},
			{"name": "owner", "type": "address"},
			{"name": "fundingGoal", "type": "uint256"},
			{"name": "durationDays", "type": "uint256"}
		],
		"name": "createProject",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "projectId", "type": "uint256"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "fundProject",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sessionId", "type": "uint256"},
			{"name": "projectId", "type": "uint256"},
			{"name": "durationDays", "type": "uint256"}
		],
		"name": "createVotingSession",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sessionId", "type": "uint256"},
			{"name": "inFavor", "type": "bool"}
		],
		"name": "vote",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sessionId", "type": "uint256"}
		],
		"name": "finalizeVotingSession",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "projectId", "type": "uint256"},
			{"name": "sessionId", "type": "uint256"}
		],
		"name": "releaseFunds",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "projectId", "type": "uint256"}
		],
		"name": "getProjectDetails",
		"outputs": [
			{"name": "owner", "type": "address"},
			{"name": "fundingGoal", "type": "uint256"},
			{"name": "currentFunding", "type": "uint256"},
			{"name": "deadline", "type": "uint256"},
			{"name": "funded", "type": "bool"},
			{"name": "fundsReleased", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sessionId", "type": "uint256"}
		],
		"name": "getVotingSessionDetails",
		"outputs": [
			{"name": "projectId", "type": "uint256"},
			{"name": "startTime", "type": "uint256"},
			{"name": "endTime", "type": "uint256"},
			{"name": "yesVotes", "type": "uint256"},
			{"name": "noVotes", "type": "uint256"},
			{"name": "finalized", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "account", "type": "address"}
		],
		"name": "balanceOf",
		"outputs": [
			{"name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "projectId", "type": "uint256"},
			{"indexed": true, "name": "owner", "type": "address"},
			{"indexed": false, "name": "fundingGoal", "type": "uint256"},
			{"indexed": false, "name": "deadline", "type": "uint256"}
		],
		"name": "ProjectCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "projectId", "type": "uint256"},
			{"indexed": true, "name": "contributor", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "ProjectFunded",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "sessionId", "type": "uint256"},
			{"indexed": true, "name": "projectId", "type": "uint256"},
			{"indexed": false, "name": "startTime", "type": "uint256"},
			{"indexed": false, "name": "endTime", "type": "uint256"}
		],
		"name": "VotingSessionCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "sessionId", "type": "uint256"},
			{"indexed": true, "name": "voter", "type": "address"},
			{"indexed": false, "name": "inFavor", "type": "bool"},
			{"indexed": false, "name": "weight", "type": "uint256"}
		],
		"name": "VoteCast",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "sessionId", "type": "uint256"},
			{"indexed": false, "name": "passed", "type": "bool"}
		],
		"name": "VotingSessionFinalized",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "projectId", "type": "uint256"},
			{"indexed": true, "name": "owner", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "FundsReleased",
		"type": "event"
	}
]`
